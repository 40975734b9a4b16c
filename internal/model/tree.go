package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxDepth bounds flattening so a symlink cycle cannot hang the UI.
const maxDepth = 50

// Tree owns the lazily-populated node arena and the flatten/visibility
// logic. All mutation happens on the UI's update goroutine; Tree itself
// does no I/O and no locking.
type Tree struct {
	nodes      []Node
	root       NodeID
	showHidden bool

	visible []NodeID
	dirty   bool
}

// New creates a tree rooted at path. The root must be an existing,
// readable directory; anything else is a startup failure.
func New(path string) (*Tree, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}
	f.Close()

	t := &Tree{dirty: true}
	t.root = t.add(Node{
		Path:   abs,
		Name:   filepath.Base(abs),
		Kind:   KindDir,
		Depth:  0,
		Parent: InvalidID,
	})
	return t, nil
}

func (t *Tree) add(n Node) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return id
}

// Root returns the root node's id.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns a pointer into the arena. Valid until process exit; nodes
// are never removed.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// ShowHidden reports whether dotfiles are included in child lists.
func (t *Tree) ShowHidden() bool {
	return t.showHidden
}

// BeginExpand marks the node expanded and reports whether the caller must
// issue an asynchronous directory read. Expansion is optimistic: the node
// shows as expanded (with a loading indicator) before entries arrive.
// Already-loaded and already-loading nodes never trigger a second read.
func (t *Tree) BeginExpand(id NodeID) bool {
	n := t.Node(id)
	if !n.Kind.IsDir() {
		return false
	}
	n.Expanded = true
	t.dirty = true
	if n.State != ChildrenNotLoaded {
		return false
	}
	n.State = ChildrenLoading
	return true
}

// Collapse hides the node's subtree. Loaded children are kept so
// re-expanding needs no disk read.
func (t *Tree) Collapse(id NodeID) {
	n := t.Node(id)
	if !n.Kind.IsDir() {
		return
	}
	n.Expanded = false
	t.dirty = true
}

// ApplyChildren installs the result of a directory read. Results are
// applied at most once per read: a node that is not in the Loading state
// ignores the call, so stale or duplicate completions are safe.
// A failed read turns the node into an error marker that stays navigable
// but can no longer be expanded.
func (t *Tree) ApplyChildren(id NodeID, entries []Entry, loadErr error) {
	n := t.Node(id)
	if n.State != ChildrenLoading {
		return
	}
	if loadErr != nil {
		n.Kind = KindError
		n.Reason = loadErr.Error()
		n.State = ChildrenNotLoaded
		n.Expanded = false
		n.Children = nil
		n.all = nil
		t.dirty = true
		return
	}

	sortEntries(entries)

	parentPath := n.Path
	depth := n.Depth + 1
	all := make([]NodeID, 0, len(entries))
	for _, e := range entries {
		all = append(all, t.add(Node{
			Path:   filepath.Join(parentPath, e.Name),
			Name:   e.Name,
			Kind:   e.Kind,
			Depth:  depth,
			Parent: id,
		}))
	}

	// t.add may have grown the arena; re-fetch the pointer.
	n = t.Node(id)
	n.all = all
	n.Children = t.filter(all)
	n.State = ChildrenLoaded
	t.dirty = true
}

// SetShowHidden flips the dotfile filter and re-derives every loaded
// node's child list from its already-fetched entries. No disk access.
func (t *Tree) SetShowHidden(show bool) {
	if t.showHidden == show {
		return
	}
	t.showHidden = show
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.State == ChildrenLoaded {
			n.Children = t.filter(n.all)
		}
	}
	t.dirty = true
}

func (t *Tree) filter(all []NodeID) []NodeID {
	if t.showHidden {
		return all
	}
	kept := make([]NodeID, 0, len(all))
	for _, id := range all {
		if !strings.HasPrefix(t.nodes[id].Name, ".") {
			kept = append(kept, id)
		}
	}
	return kept
}

// Flatten returns the visible sequence: the root's children, each expanded
// directory followed by its visible descendants. The sequence is cached
// and only recomputed after a structural mutation.
func (t *Tree) Flatten() []NodeID {
	if !t.dirty {
		return t.visible
	}
	t.visible = t.visible[:0]
	t.appendVisible(t.root)
	t.dirty = false
	return t.visible
}

func (t *Tree) appendVisible(id NodeID) {
	n := t.Node(id)
	if n.Depth >= maxDepth {
		return
	}
	for _, child := range n.Children {
		t.visible = append(t.visible, child)
		c := t.Node(child)
		if c.Expanded && c.State == ChildrenLoaded {
			t.appendVisible(child)
		}
	}
}

// IsAncestor reports whether anc lies on id's parent chain.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for p := t.Node(id).Parent; p != InvalidID; p = t.Node(p).Parent {
		if p == anc {
			return true
		}
	}
	return false
}

// ParentIndex walks backward from index i in the visible sequence to the
// nearest row with a smaller depth. Returns i when already at the top
// level.
func (t *Tree) ParentIndex(visible []NodeID, i int) int {
	if i < 0 || i >= len(visible) {
		return i
	}
	depth := t.Node(visible[i]).Depth
	for j := i - 1; j >= 0; j-- {
		if t.Node(visible[j]).Depth < depth {
			return j
		}
	}
	return i
}

// sortEntries orders directories before files, case-insensitively by name
// within each group, with a case-sensitive tie-break for determinism.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].Kind.IsDir(), entries[j].Kind.IsDir()
		if di != dj {
			return di
		}
		li, lj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if li != lj {
			return li < lj
		}
		return entries[i].Name < entries[j].Name
	})
}
