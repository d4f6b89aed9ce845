// Package evaluator keeps bookmarks pointed at the latest URL matching their rule.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"bookmarksync/internal/bookmarks"
	"bookmarksync/internal/metrics"
	"bookmarksync/internal/navigation"
	"bookmarksync/internal/rules"
)

// Outcome is the result of evaluating one rule against one URL.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeDisabled  Outcome = "disabled"
	OutcomeNoMatch   Outcome = "no_match"
	OutcomeError     Outcome = "error"
)

// Result describes what happened to one rule.
type Result struct {
	RuleID      string  `json:"ruleId" doc:"Rule identifier"`
	BookmarkID  string  `json:"bookmarkId" doc:"Bookmark the rule points at"`
	Outcome     Outcome `json:"outcome" enum:"updated,unchanged,disabled,no_match,error" doc:"What happened to the rule"`
	PreviousURL string  `json:"previousUrl,omitempty" doc:"Bookmark URL before the update"`
	Error       string  `json:"error,omitempty" doc:"Failure description when outcome is error"`

	err error
}

// Err returns the per-rule failure, if any.
func (r Result) Err() error {
	return r.err
}

// RuleSource loads the full rule mapping.
type RuleSource interface {
	GetAll(ctx context.Context) (map[string]rules.Rule, error)
}

// Evaluator reconciles bookmarks against rules on navigation events. It holds no state
// between events; every qualifying event reloads the rules.
type Evaluator struct {
	rules     RuleSource
	bookmarks bookmarks.Directory
	matcher   *Matcher
}

// New creates an Evaluator.
func New(source RuleSource, directory bookmarks.Directory, matcher *Matcher) *Evaluator {
	if matcher == nil {
		matcher = NewMatcher(DefaultPatternTimeout)
	}
	return &Evaluator{
		rules:     source,
		bookmarks: directory,
		matcher:   matcher,
	}
}

// HandleEvent evaluates every rule for a completed main-frame navigation. Other events are
// dropped without touching storage. A failure to load the rules is logged and yields no results.
func (e *Evaluator) HandleEvent(ctx context.Context, event navigation.Event) []Result {
	if !event.Qualifies() {
		metrics.NavigationEvents.WithLabelValues(metrics.Ignored).Inc()
		return nil
	}
	metrics.NavigationEvents.WithLabelValues(metrics.Qualified).Inc()

	start := time.Now()
	defer func() {
		metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	}()

	all, err := e.rules.GetAll(ctx)
	if err != nil {
		metrics.BatchAborts.Inc()
		slog.Error("HandleEvent: Failed to load rules", "error", err, "url", event.URL, "tab_id", event.TabID)
		return nil
	}

	return e.Evaluate(ctx, event.URL, all)
}

// Evaluate applies each rule to currentURL in rule id order. A failing rule never stops
// the remaining ones.
func (e *Evaluator) Evaluate(ctx context.Context, currentURL string, all map[string]rules.Rule) []Result {
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		res := e.evaluateRule(ctx, id, all[id], currentURL)
		metrics.RuleOutcomes.WithLabelValues(string(res.Outcome)).Inc()
		if res.err != nil {
			res.Error = res.err.Error()
			slog.Error("Evaluate: Rule failed", "rule_id", id, "bookmark_id", res.BookmarkID, "error", res.err)
		}
		results = append(results, res)
	}
	return results
}

func (e *Evaluator) evaluateRule(ctx context.Context, id string, rule rules.Rule, currentURL string) Result {
	res := Result{RuleID: id, BookmarkID: rule.BookmarkID}

	if !rule.Enabled {
		res.Outcome = OutcomeDisabled
		return res
	}

	matched, err := e.matches(rule, currentURL)
	if err != nil {
		return fail(res, err)
	}
	if !matched {
		slog.Debug("Evaluate: No match", "rule_id", id, "url", currentURL)
		res.Outcome = OutcomeNoMatch
		return res
	}

	nodes, err := e.bookmarks.Get(ctx, rule.BookmarkID)
	if err != nil {
		return fail(res, fmt.Errorf("looking up bookmark %s: %w", rule.BookmarkID, err))
	}
	if len(nodes) == 0 {
		return fail(res, fmt.Errorf("%w: bookmark %s", rules.ErrNotFound, rule.BookmarkID))
	}

	res.PreviousURL = nodes[0].URL
	if nodes[0].URL == currentURL {
		slog.Debug("Evaluate: Bookmark already up to date", "rule_id", id, "bookmark_id", rule.BookmarkID)
		res.Outcome = OutcomeUnchanged
		return res
	}

	if err := e.bookmarks.Update(ctx, rule.BookmarkID, currentURL); err != nil {
		if errors.Is(err, bookmarks.ErrNotFound) {
			err = fmt.Errorf("%w: %v", rules.ErrNotFound, err)
		}
		return fail(res, fmt.Errorf("updating bookmark %s: %w", rule.BookmarkID, err))
	}

	slog.Info("Evaluate: Updated bookmark",
		"rule_id", id,
		"bookmark_id", rule.BookmarkID,
		"from", res.PreviousURL,
		"to", currentURL,
	)
	res.Outcome = OutcomeUpdated
	return res
}

// matches is true iff include matches and exclude, when set, does not. A set exclude
// pattern is always tested, so a malformed one fails the rule even for URLs include rejects.
func (e *Evaluator) matches(rule rules.Rule, currentURL string) (bool, error) {
	include, err := e.matcher.Match(rule.IncludePattern, currentURL)
	if err != nil {
		return false, fmt.Errorf("include pattern: %w", err)
	}
	if rule.ExcludePattern == "" {
		return include, nil
	}

	exclude, err := e.matcher.Match(rule.ExcludePattern, currentURL)
	if err != nil {
		return false, fmt.Errorf("exclude pattern: %w", err)
	}
	return include && !exclude, nil
}

func fail(res Result, err error) Result {
	res.Outcome = OutcomeError
	res.err = err
	return res
}
