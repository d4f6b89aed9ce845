package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"bookmarksync/internal/database"

	"gopkg.in/yaml.v3"
)

// ImportFile loads a rule set from a YAML or JSON file mapping rule ids to rule records and
// writes it in a single store call. Legacy "pattern" records are normalized. Ids already
// present in the store are overwritten. Nothing is written if any entry is invalid.
func (s *Store) ImportFile(ctx context.Context, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return s.Import(ctx, content)
}

// Import is ImportFile on in-memory content.
func (s *Store) Import(ctx context.Context, content []byte) (int, error) {
	var entries map[string]map[string]interface{}
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return 0, fmt.Errorf("%w: failed to parse rules file: %v", ErrValidation, err)
	}

	records := make(database.Records, len(entries))
	now := s.clock().UTC()
	for id, entry := range entries {
		if strings.TrimSpace(id) == "" {
			return 0, fmt.Errorf("%w: rule id cannot be empty", ErrValidation)
		}

		raw, err := json.Marshal(entry)
		if err != nil {
			return 0, fmt.Errorf("%w: rule %s: %v", ErrValidation, id, err)
		}

		rule, err := decodeRule(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: rule %s: %v", ErrValidation, id, err)
		}
		if rule.BookmarkID == "" || rule.IncludePattern == "" {
			return 0, fmt.Errorf("%w: rule %s: bookmarkId and includePattern are required", ErrValidation, id)
		}
		if rule.Name == "" {
			rule.Name = DefaultName(id)
		}
		if rule.LastUpdated.IsZero() {
			rule.LastUpdated = now
		}

		data, err := encodeRule(rule)
		if err != nil {
			return 0, fmt.Errorf("%w: encoding rule %s: %v", ErrStorage, id, err)
		}
		records[id] = data
	}

	if len(records) == 0 {
		return 0, nil
	}

	if err := s.kv.Set(ctx, records); err != nil {
		return 0, fmt.Errorf("%w: saving imported rules: %v", ErrStorage, err)
	}

	slog.Info("Import: Imported rules", "count", len(records))
	return len(records), nil
}

// Export writes every stored rule as a YAML document that Import accepts.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	rules, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("failed to write rules: %w", err)
	}
	return enc.Close()
}
