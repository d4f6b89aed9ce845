package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"bookmarksync/internal/rules"

	"github.com/danielgtaylor/huma/v2"
)

// RuleStore is the rule persistence the handlers need.
type RuleStore interface {
	GetAll(ctx context.Context) (map[string]rules.Rule, error)
	Get(ctx context.Context, id string) (rules.Rule, error)
	Add(ctx context.Context, bookmarkID, name, includePattern, excludePattern string) (string, error)
	Update(ctx context.Context, id string, patch rules.Patch) (rules.Rule, error)
	Delete(ctx context.Context, id string) error
}

// RuleHandlers handles rule-related API requests.
type RuleHandlers struct {
	store RuleStore
}

// NewRuleHandlers registers rule handlers with the API.
func NewRuleHandlers(api huma.API, store RuleStore) {
	h := &RuleHandlers{store: store}

	huma.Register(api, huma.Operation{
		OperationID:   "create-rule",
		Method:        http.MethodPost,
		Path:          "/api/v1/rules",
		Summary:       "Create a rule",
		Description:   "Creates an enabled rule for a bookmark.",
		Tags:          []string{"Rules"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateRule)

	huma.Register(api, huma.Operation{
		OperationID: "get-rule",
		Method:      http.MethodGet,
		Path:        "/api/v1/rules/{id}",
		Summary:     "Get a rule",
		Description: "Retrieves a rule by its ID.",
		Tags:        []string{"Rules"},
	}, h.GetRule)

	huma.Register(api, huma.Operation{
		OperationID: "list-rules",
		Method:      http.MethodGet,
		Path:        "/api/v1/rules",
		Summary:     "List rules",
		Description: "Returns every rule keyed by its ID.",
		Tags:        []string{"Rules"},
	}, h.ListRules)

	huma.Register(api, huma.Operation{
		OperationID: "update-rule",
		Method:      http.MethodPatch,
		Path:        "/api/v1/rules/{id}",
		Summary:     "Update a rule",
		Description: "Replaces the fields present in the body and keeps the rest.",
		Tags:        []string{"Rules"},
	}, h.UpdateRule)

	huma.Register(api, huma.Operation{
		OperationID: "delete-rule",
		Method:      http.MethodDelete,
		Path:        "/api/v1/rules/{id}",
		Summary:     "Delete a rule",
		Description: "Deletes a rule by its ID. Deleting an unknown rule succeeds.",
		Tags:        []string{"Rules"},
	}, h.DeleteRule)
}

type CreateRuleInput struct {
	Body struct {
		BookmarkID     string `json:"bookmarkId,omitempty" doc:"ID of the bookmark to keep in sync; required"`
		Name           string `json:"name,omitempty" doc:"Display label; derived from the ID when empty"`
		IncludePattern string `json:"includePattern,omitempty" doc:"Regular expression a URL must match; required"`
		ExcludePattern string `json:"excludePattern,omitempty" doc:"Regular expression disqualifying a URL"`
	}
}

type CreateRuleOutput struct {
	Body struct {
		ID string `json:"id" doc:"The ID of the created rule"`
	}
}

type GetRuleInput struct {
	ID string `path:"id" doc:"The ID of the rule to retrieve"`
}

type GetRuleOutput struct {
	Body rules.Rule
}

type ListRulesOutput struct {
	Body map[string]rules.Rule
}

type UpdateRuleInput struct {
	ID   string `path:"id" doc:"The ID of the rule to update"`
	Body rules.Patch
}

type UpdateRuleOutput struct {
	Body rules.Rule
}

type DeleteRuleInput struct {
	ID string `path:"id" doc:"The ID of the rule to delete"`
}

type DeleteRuleOutput struct {
	Status int
}

// CreateRule creates a rule.
func (h *RuleHandlers) CreateRule(ctx context.Context, input *CreateRuleInput) (*CreateRuleOutput, error) {
	id, err := h.store.Add(ctx, input.Body.BookmarkID, input.Body.Name, input.Body.IncludePattern, input.Body.ExcludePattern)
	if err != nil {
		slog.Warn("CreateRule: Failed to create rule", "bookmark_id", input.Body.BookmarkID, "error", err)
		return nil, toHTTPError(err)
	}

	resp := &CreateRuleOutput{}
	resp.Body.ID = id
	return resp, nil
}

// GetRule retrieves a rule by ID.
func (h *RuleHandlers) GetRule(ctx context.Context, input *GetRuleInput) (*GetRuleOutput, error) {
	rule, err := h.store.Get(ctx, input.ID)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &GetRuleOutput{Body: rule}, nil
}

// ListRules returns all rules.
func (h *RuleHandlers) ListRules(ctx context.Context, _ *struct{}) (*ListRulesOutput, error) {
	all, err := h.store.GetAll(ctx)
	if err != nil {
		slog.Error("ListRules: Failed to list rules", "error", err)
		return nil, toHTTPError(err)
	}

	return &ListRulesOutput{Body: all}, nil
}

// UpdateRule applies a partial update.
func (h *RuleHandlers) UpdateRule(ctx context.Context, input *UpdateRuleInput) (*UpdateRuleOutput, error) {
	rule, err := h.store.Update(ctx, input.ID, input.Body)
	if err != nil {
		slog.Warn("UpdateRule: Failed to update rule", "id", input.ID, "error", err)
		return nil, toHTTPError(err)
	}

	return &UpdateRuleOutput{Body: rule}, nil
}

// DeleteRule deletes a rule by ID.
func (h *RuleHandlers) DeleteRule(ctx context.Context, input *DeleteRuleInput) (*DeleteRuleOutput, error) {
	if err := h.store.Delete(ctx, input.ID); err != nil {
		slog.Error("DeleteRule: Failed to delete rule", "id", input.ID, "error", err)
		return nil, toHTTPError(err)
	}

	return &DeleteRuleOutput{Status: http.StatusNoContent}, nil
}

// toHTTPError maps the rule error taxonomy onto problem responses.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, rules.ErrValidation):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, rules.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
