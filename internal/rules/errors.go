package rules

import "errors"

// Error taxonomy shared by the rule store, the evaluator and the API layer.
// Concrete errors wrap one of these and are matched with errors.Is.
var (
	// ErrValidation reports a missing or invalid field on rule creation or update.
	ErrValidation = errors.New("validation error")
	// ErrNotFound reports an absent rule or bookmark.
	ErrNotFound = errors.New("not found")
	// ErrPattern reports a pattern that does not compile or cannot be evaluated.
	ErrPattern = errors.New("pattern error")
	// ErrStorage reports a failure of the underlying key-value store.
	ErrStorage = errors.New("storage error")
)
