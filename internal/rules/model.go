package rules

import (
	"time"
)

// Rule ties a bookmark to an include/exclude URL pattern pair.
type Rule struct {
	BookmarkID     string    `json:"bookmarkId" yaml:"bookmarkId" doc:"ID of the bookmark kept in sync"`
	Name           string    `json:"name" yaml:"name" doc:"Display label"`
	IncludePattern string    `json:"includePattern" yaml:"includePattern" doc:"Regular expression a URL must match"`
	ExcludePattern string    `json:"excludePattern" yaml:"excludePattern" doc:"Regular expression disqualifying a URL; empty disables it"`
	Enabled        bool      `json:"enabled" yaml:"enabled" doc:"Disabled rules are never evaluated"`
	LastUpdated    time.Time `json:"lastUpdated" yaml:"lastUpdated,omitempty" doc:"Time of the last modification"`
}

// Patch is a partial rule update. Nil fields are left untouched; set fields replace the
// stored value, including empty strings and false.
type Patch struct {
	BookmarkID     *string `json:"bookmarkId,omitempty" doc:"ID of the bookmark kept in sync"`
	Name           *string `json:"name,omitempty" doc:"Display label"`
	IncludePattern *string `json:"includePattern,omitempty" doc:"Regular expression a URL must match"`
	ExcludePattern *string `json:"excludePattern,omitempty" doc:"Regular expression disqualifying a URL"`
	Enabled        *bool   `json:"enabled,omitempty" doc:"Whether the rule is evaluated"`
}

// Apply returns r with every field present in the patch replaced.
func (p Patch) Apply(r Rule) Rule {
	if p.BookmarkID != nil {
		r.BookmarkID = *p.BookmarkID
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.IncludePattern != nil {
		r.IncludePattern = *p.IncludePattern
	}
	if p.ExcludePattern != nil {
		r.ExcludePattern = *p.ExcludePattern
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	return r
}

// DefaultName derives the display label used when a rule is created without one.
func DefaultName(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "Rule " + id
}
