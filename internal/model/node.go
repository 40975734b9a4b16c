package model

// NodeID addresses a node in the tree arena. IDs are stable for the
// lifetime of the process; nodes are never removed.
type NodeID int

// InvalidID marks the absence of a node (e.g. the root's parent).
const InvalidID NodeID = -1

// Kind classifies a filesystem entry.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlinkFile
	KindSymlinkDir
	KindError
)

// IsDir reports whether the entry behaves like a directory.
func (k Kind) IsDir() bool {
	return k == KindDir || k == KindSymlinkDir
}

// IsSymlink reports whether the entry is a symlink.
func (k Kind) IsSymlink() bool {
	return k == KindSymlinkFile || k == KindSymlinkDir
}

// ChildState tracks the lazy-loading state of a directory's children.
type ChildState int

const (
	ChildrenNotLoaded ChildState = iota
	ChildrenLoading
	ChildrenLoaded
)

// Entry is one raw directory entry as fetched from disk. Entries are kept
// on the parent node so hidden-file toggles re-filter without re-reading.
type Entry struct {
	Name string
	Kind Kind
}

// Node represents a file or directory tracked by the tree.
type Node struct {
	Path     string // absolute path, unique identity
	Name     string
	Kind     Kind
	Depth    int // root is 0, its children 1, and so on
	Parent   NodeID
	Expanded bool
	State    ChildState
	Children []NodeID // visible children: hidden-filtered, sorted
	Reason   string   // failure description when Kind == KindError

	all []NodeID // every fetched child, sorted, hidden included
}
