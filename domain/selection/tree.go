// Package selection models a folder/file tree with cascading check states and
// flattens it into the folders and files a conversion run should include.
package selection

import (
	"vidtowav/domain/conversion"
)

// State is the check state of a tree node
type State int

const (
	Unchecked State = iota
	Checked
	Partial
)

func (s State) String() string {
	switch s {
	case Checked:
		return "checked"
	case Partial:
		return "partial"
	default:
		return "unchecked"
	}
}

// Node is a folder or file in the selection tree
type Node struct {
	Path     string
	Name     string
	IsDir    bool
	State    State
	Children []*Node
	parent   *Node
}

// NewDir creates a checked directory node
func NewDir(path, name string) *Node {
	return &Node{Path: path, Name: name, IsDir: true, State: Checked}
}

// NewFile creates a checked file node
func NewFile(path, name string) *Node {
	return &Node{Path: path, Name: name, State: Checked}
}

// Add attaches child to n and returns child
func (n *Node) Add(child *Node) *Node {
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

// SetChecked sets n and every descendant, then recomputes ancestor states
func (n *Node) SetChecked(checked bool) {
	state := Unchecked
	if checked {
		state = Checked
	}
	n.cascade(state)
	for p := n.parent; p != nil; p = p.parent {
		p.State = p.derive()
	}
}

func (n *Node) cascade(state State) {
	n.State = state
	for _, c := range n.Children {
		c.cascade(state)
	}
}

// derive computes a directory's state from its children.
// Empty directories keep their own state.
func (n *Node) derive() State {
	if len(n.Children) == 0 {
		return n.State
	}
	checked, unchecked := 0, 0
	for _, c := range n.Children {
		switch c.State {
		case Checked:
			checked++
		case Unchecked:
			unchecked++
		}
	}
	switch {
	case checked == len(n.Children):
		return Checked
	case unchecked == len(n.Children):
		return Unchecked
	default:
		return Partial
	}
}

// SelectAll checks the whole tree
func (n *Node) SelectAll() {
	n.SetChecked(true)
}

// DeselectAll unchecks the whole tree
func (n *Node) DeselectAll() {
	n.SetChecked(false)
}

// Find returns the node with path, or nil
func (n *Node) Find(path string) *Node {
	if n.Path == path {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first in child order
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Resolve flattens the tree into an explicit selection. A fully checked
// directory is emitted as a folder and not descended; a partially checked
// one contributes its checked descendants.
func Resolve(root *Node) conversion.Selection {
	var sel conversion.Selection
	resolve(root, &sel)
	return sel
}

func resolve(n *Node, sel *conversion.Selection) {
	switch n.State {
	case Unchecked:
		return
	case Checked:
		if n.IsDir {
			sel.Folders = append(sel.Folders, n.Path)
		} else {
			sel.Files = append(sel.Files, n.Path)
		}
		return
	}
	for _, c := range n.Children {
		resolve(c, sel)
	}
}
