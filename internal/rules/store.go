package rules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookmarksync/internal/database"
)

// Store provides rule CRUD on top of a key-value store.
// It keeps no in-memory state: every call reads the backing store again.
type Store struct {
	kv    database.KVStore
	ids   IDGenerator
	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator, e.g. with a deterministic one in tests.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock replaces time.Now as the source of lastUpdated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.clock = now }
}

// NewStore creates a new Store with the given dependencies.
func NewStore(kv database.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		ids:   UUIDGenerator,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns every stored rule keyed by id. Records that fail shape validation are
// logged and left out; a storage failure returns no rules at all.
func (s *Store) GetAll(ctx context.Context) (map[string]Rule, error) {
	records, err := s.kv.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading rules: %v", ErrStorage, err)
	}

	rules := make(map[string]Rule, len(records))
	for id, data := range records {
		rule, err := decodeRule(data)
		if err != nil {
			slog.Warn("GetAll: Skipping malformed rule record", "rule_id", id, "error", err)
			continue
		}
		rules[id] = rule
	}
	return rules, nil
}

// Get returns a single rule.
func (s *Store) Get(ctx context.Context, id string) (Rule, error) {
	records, err := s.kv.Get(ctx, id)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: loading rule %s: %v", ErrStorage, id, err)
	}

	data, ok := records[id]
	if !ok {
		return Rule{}, fmt.Errorf("%w: rule %s", ErrNotFound, id)
	}

	rule, err := decodeRule(data)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: rule %s: %v", ErrStorage, id, err)
	}
	return rule, nil
}

// Add creates an enabled rule and returns its new identifier.
func (s *Store) Add(ctx context.Context, bookmarkID, name, includePattern, excludePattern string) (string, error) {
	if bookmarkID == "" || includePattern == "" {
		return "", fmt.Errorf("%w: bookmarkId and includePattern are required", ErrValidation)
	}

	id := s.ids.NewID()
	if name == "" {
		name = DefaultName(id)
	}

	rule := Rule{
		BookmarkID:     bookmarkID,
		Name:           name,
		IncludePattern: includePattern,
		ExcludePattern: excludePattern,
		Enabled:        true,
		LastUpdated:    s.clock().UTC(),
	}

	if err := s.put(ctx, id, rule); err != nil {
		return "", err
	}

	slog.Info("Add: Created rule", "rule_id", id, "bookmark_id", bookmarkID)
	return id, nil
}

// Update merges the patch over the stored rule and persists the result.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Rule, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Rule{}, err
	}

	updated := patch.Apply(existing)
	if updated.BookmarkID == "" || updated.IncludePattern == "" {
		return Rule{}, fmt.Errorf("%w: bookmarkId and includePattern cannot be empty", ErrValidation)
	}
	updated.LastUpdated = s.clock().UTC()

	if err := s.put(ctx, id, updated); err != nil {
		return Rule{}, err
	}

	slog.Info("Update: Updated rule", "rule_id", id)
	return updated, nil
}

// Delete removes a rule. Deleting an absent rule succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: removing rule %s: %v", ErrStorage, id, err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, id string, rule Rule) error {
	data, err := encodeRule(rule)
	if err != nil {
		return fmt.Errorf("%w: encoding rule %s: %v", ErrStorage, id, err)
	}
	if err := s.kv.Set(ctx, database.Records{id: data}); err != nil {
		return fmt.Errorf("%w: saving rule %s: %v", ErrStorage, id, err)
	}
	return nil
}
