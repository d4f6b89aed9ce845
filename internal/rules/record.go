package rules

import (
	"encoding/json"
	"fmt"

	"bookmarksync/internal/validation"
)

// recordSchema accepts both the current record shape and the legacy one that carried a
// single "pattern" field instead of the include/exclude pair.
const recordSchema = `{
	"type": "object",
	"properties": {
		"bookmarkId": {"type": "string"},
		"name": {"type": ["string", "null"]},
		"includePattern": {"type": ["string", "null"]},
		"excludePattern": {"type": ["string", "null"]},
		"pattern": {"type": ["string", "null"]},
		"enabled": {"type": ["boolean", "null"]},
		"lastUpdated": {"type": ["string", "null"], "format": "date-time"}
	},
	"required": ["bookmarkId"]
}`

var recordValidator = validation.MustJSONSchemaValidator(recordSchema)

// storedRule is the union of every record shape found in storage.
type storedRule struct {
	Rule
	Pattern string `json:"pattern,omitempty"`
}

// decodeRule validates a stored document and normalizes it to the current shape.
func decodeRule(data []byte) (Rule, error) {
	if err := recordValidator.Validate(data); err != nil {
		return Rule{}, fmt.Errorf("invalid rule record: %w", err)
	}

	var stored storedRule
	if err := json.Unmarshal(data, &stored); err != nil {
		return Rule{}, fmt.Errorf("invalid rule record: %w", err)
	}

	rule := stored.Rule
	if rule.IncludePattern == "" && stored.Pattern != "" {
		rule.IncludePattern = stored.Pattern
	}
	return rule, nil
}

// encodeRule always writes the current shape, so legacy records are migrated on their next write.
func encodeRule(r Rule) (json.RawMessage, error) {
	return json.Marshal(r)
}
