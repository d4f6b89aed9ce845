// Package bookmarks exposes the host's bookmark directory. Bookmarks are owned by the
// browser; this package only reads them and rewrites their URLs.
package bookmarks

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no bookmark has the requested identifier.
var ErrNotFound = errors.New("bookmark not found")

// Node is a bookmark or a folder. Folders have no URL.
type Node struct {
	ID       string `json:"id" doc:"Bookmark identifier"`
	Title    string `json:"title" doc:"Bookmark title"`
	URL      string `json:"url,omitempty" doc:"Bookmark URL; empty for folders"`
	Children []Node `json:"children,omitempty" doc:"Folder contents"`
}

// Directory is the bookmark store rules point into.
type Directory interface {
	// Get returns the node with the given id, or an empty list when there is none.
	Get(ctx context.Context, id string) ([]Node, error)
	// Update sets the URL of a bookmark. It fails with ErrNotFound for unknown ids.
	Update(ctx context.Context, id, url string) error
	// Tree returns the top-level folders with all their descendants.
	Tree(ctx context.Context) ([]Node, error)
}

// Flatten returns every URL-bearing bookmark under the given nodes, depth first.
func Flatten(nodes []Node) []Node {
	var out []Node
	for _, node := range nodes {
		if node.Children != nil {
			out = append(out, Flatten(node.Children)...)
		} else if node.URL != "" {
			out = append(out, node)
		}
	}
	return out
}
