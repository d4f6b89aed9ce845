package api

import (
	"context"
	"log/slog"
	"net/http"

	"bookmarksync/internal/bookmarks"
	"bookmarksync/internal/rules"

	"github.com/danielgtaylor/huma/v2"
)

// BookmarkHandlers lists bookmarks and turns them into rules.
type BookmarkHandlers struct {
	directory bookmarks.Directory
	store     RuleStore
}

// NewBookmarkHandlers registers bookmark handlers with the API.
func NewBookmarkHandlers(api huma.API, directory bookmarks.Directory, store RuleStore) {
	h := &BookmarkHandlers{directory: directory, store: store}

	huma.Register(api, huma.Operation{
		OperationID: "list-bookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns every bookmark that has a URL, folders flattened away.",
		Tags:        []string{"Bookmarks"},
	}, h.ListBookmarks)

	huma.Register(api, huma.Operation{
		OperationID:   "create-rule-from-bookmark",
		Method:        http.MethodPost,
		Path:          "/api/v1/bookmarks/{id}/rule",
		Summary:       "Create a rule for a bookmark",
		Description:   "Creates a rule named after the bookmark that follows any URL on the bookmark's host.",
		Tags:          []string{"Bookmarks"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateRuleFromBookmark)
}

// Bookmark is a flattened bookmark.
type Bookmark struct {
	ID    string `json:"id" doc:"Bookmark identifier"`
	Title string `json:"title" doc:"Bookmark title"`
	URL   string `json:"url" doc:"Bookmark URL"`
}

type ListBookmarksOutput struct {
	Body []Bookmark
}

type CreateRuleFromBookmarkInput struct {
	ID string `path:"id" doc:"The ID of the bookmark"`
}

type CreateRuleFromBookmarkOutput struct {
	Body struct {
		ID             string `json:"id" doc:"The ID of the created rule"`
		IncludePattern string `json:"includePattern" doc:"The generated include pattern"`
	}
}

// ListBookmarks returns the flattened bookmark list.
func (h *BookmarkHandlers) ListBookmarks(ctx context.Context, _ *struct{}) (*ListBookmarksOutput, error) {
	tree, err := h.directory.Tree(ctx)
	if err != nil {
		slog.Error("ListBookmarks: Failed to read bookmarks", "error", err)
		return nil, huma.Error500InternalServerError(err.Error())
	}

	flat := bookmarks.Flatten(tree)
	out := make([]Bookmark, 0, len(flat))
	for _, node := range flat {
		out = append(out, Bookmark{ID: node.ID, Title: node.Title, URL: node.URL})
	}
	return &ListBookmarksOutput{Body: out}, nil
}

// CreateRuleFromBookmark creates a rule for the bookmark's host.
func (h *BookmarkHandlers) CreateRuleFromBookmark(ctx context.Context, input *CreateRuleFromBookmarkInput) (*CreateRuleFromBookmarkOutput, error) {
	nodes, err := h.directory.Get(ctx, input.ID)
	if err != nil {
		slog.Error("CreateRuleFromBookmark: Failed to read bookmark", "bookmark_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError(err.Error())
	}
	if len(nodes) == 0 {
		return nil, huma.Error404NotFound("bookmark not found: " + input.ID)
	}

	bookmark := nodes[0]
	pattern, err := rules.SuggestIncludePattern(bookmark.URL)
	if err != nil {
		return nil, toHTTPError(err)
	}

	id, err := h.store.Add(ctx, bookmark.ID, bookmark.Title, pattern, "")
	if err != nil {
		slog.Warn("CreateRuleFromBookmark: Failed to create rule", "bookmark_id", input.ID, "error", err)
		return nil, toHTTPError(err)
	}

	resp := &CreateRuleFromBookmarkOutput{}
	resp.Body.ID = id
	resp.Body.IncludePattern = pattern
	return resp, nil
}
