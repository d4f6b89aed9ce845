package evaluator

import (
	"fmt"
	"time"

	"bookmarksync/internal/metrics"
	"bookmarksync/internal/rules"

	"github.com/dlclark/regexp2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPatternTimeout bounds a single match against a user-supplied pattern.
const DefaultPatternTimeout = 100 * time.Millisecond

// PatternCacheSize caps how many compiled patterns a Matcher retains.
const PatternCacheSize = 1024

// Matcher compiles rule patterns with JavaScript regular expression semantics and caches
// the compiled form by pattern text, evicting the least recently used patterns once
// PatternCacheSize is reached. Safe for concurrent use.
type Matcher struct {
	timeout  time.Duration
	compiled *lru.Cache[string, *regexp2.Regexp]
}

// NewMatcher creates a Matcher. A non-positive timeout selects DefaultPatternTimeout.
func NewMatcher(timeout time.Duration) *Matcher {
	return newMatcher(timeout, PatternCacheSize)
}

func newMatcher(timeout time.Duration, cacheSize int) *Matcher {
	if timeout <= 0 {
		timeout = DefaultPatternTimeout
	}
	compiled, err := lru.New[string, *regexp2.Regexp](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("pattern cache: %v", err)) // only a non-positive size fails
	}
	return &Matcher{timeout: timeout, compiled: compiled}
}

// Match reports whether pattern finds a match anywhere in input. Compilation failures and
// match timeouts are returned wrapping rules.ErrPattern.
func (m *Matcher) Match(pattern, input string) (bool, error) {
	re, err := m.compile(pattern)
	if err != nil {
		return false, err
	}
	ok, err := re.MatchString(input)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", rules.ErrPattern, pattern, err)
	}
	return ok, nil
}

func (m *Matcher) compile(pattern string) (*regexp2.Regexp, error) {
	if re, ok := m.compiled.Get(pattern); ok {
		return re, nil
	}

	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", rules.ErrPattern)
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", rules.ErrPattern, pattern, err)
	}
	re.MatchTimeout = m.timeout

	metrics.PatternCacheMisses.Inc()
	if previous, ok, _ := m.compiled.PeekOrAdd(pattern, re); ok {
		return previous, nil
	}
	return re, nil
}
