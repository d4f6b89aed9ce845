package rules

import (
	"fmt"
	"net/url"
	"strings"
)

// SuggestIncludePattern builds the include pattern offered for a bookmark: any http or https
// URL on the bookmark's host.
func SuggestIncludePattern(bookmarkURL string) (string, error) {
	u, err := url.Parse(bookmarkURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid bookmark URL: %v", ErrValidation, err)
	}

	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("%w: bookmark URL %q has no host", ErrValidation, bookmarkURL)
	}

	return "^https?://" + strings.ReplaceAll(host, ".", `\.`), nil
}
