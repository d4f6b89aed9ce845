package bookmarks

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"bookmarksync/internal/fsutil"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ChromeDirectory reads and edits a Chromium profile "Bookmarks" file in place.
// Only the url of the edited node and the file checksum change; every other field,
// including ones this package does not know about, is written back untouched.
//
// The browser must not hold the profile open while the file is edited, or it will
// overwrite the change on exit.
type ChromeDirectory struct {
	path string
	mu   sync.Mutex
}

// NewChromeDirectory returns a directory backed by the Bookmarks file at path.
func NewChromeDirectory(path string) *ChromeDirectory {
	return &ChromeDirectory{path: path}
}

func (d *ChromeDirectory) read() ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("bookmarks file %s is not valid JSON", d.path)
	}
	return data, nil
}

// Get returns the node with the given id, or an empty list.
func (d *ChromeDirectory) Get(ctx context.Context, id string) ([]Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.read()
	if err != nil {
		return nil, err
	}

	_, node, ok := find(data, id)
	if !ok {
		return []Node{}, nil
	}
	return []Node{toNode(node)}, nil
}

// Update rewrites the url of bookmark id.
func (d *ChromeDirectory) Update(ctx context.Context, id, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.read()
	if err != nil {
		return err
	}

	path, node, ok := find(data, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if node.Get("type").String() == "folder" {
		return fmt.Errorf("cannot set the URL of bookmark folder %s", id)
	}

	data, err = sjson.SetBytes(data, path+".url", url)
	if err != nil {
		return fmt.Errorf("failed to set bookmark url: %w", err)
	}
	// The browser discards a stale checksum and recomputes it on load.
	data, err = sjson.DeleteBytes(data, "checksum")
	if err != nil {
		return fmt.Errorf("failed to clear bookmarks checksum: %w", err)
	}

	return fsutil.WriteFileAtomic(d.path, data, 0o600)
}

// Tree returns the root folders (bookmark bar, other, mobile) in file order.
func (d *ChromeDirectory) Tree(ctx context.Context) ([]Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := d.read()
	if err != nil {
		return nil, err
	}

	var roots []Node
	gjson.GetBytes(data, "roots").ForEach(func(_, value gjson.Result) bool {
		if value.IsObject() {
			roots = append(roots, toNode(value))
		}
		return true
	})
	return roots, nil
}

// find locates the node with the given id and returns its sjson path.
func find(data []byte, id string) (string, gjson.Result, bool) {
	var (
		foundPath string
		found     gjson.Result
		ok        bool
	)

	var walk func(node gjson.Result, path string)
	walk = func(node gjson.Result, path string) {
		if ok {
			return
		}
		if node.Get("id").String() == id {
			foundPath, found, ok = path, node, true
			return
		}
		i := 0
		node.Get("children").ForEach(func(_, child gjson.Result) bool {
			walk(child, path+".children."+strconv.Itoa(i))
			i++
			return !ok
		})
	}

	gjson.GetBytes(data, "roots").ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() {
			walk(value, "roots."+key.String())
		}
		return !ok
	})
	return foundPath, found, ok
}

func toNode(r gjson.Result) Node {
	node := Node{
		ID:    r.Get("id").String(),
		Title: r.Get("name").String(),
		URL:   r.Get("url").String(),
	}
	if r.Get("type").String() == "folder" {
		node.Children = []Node{}
		r.Get("children").ForEach(func(_, child gjson.Result) bool {
			node.Children = append(node.Children, toNode(child))
			return true
		})
	}
	return node
}
