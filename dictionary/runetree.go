package dictionary

import (
	"sort"
	"strings"
)

type RuneNode struct {
	rune      rune               // The rune this node represents.
	runes     []rune             // The prior runes that led to this node.
	terminal  bool               // If a key ends at this node.
	value     []byte             // The record stored under the key.
	childs    map[rune]*RuneNode // The child nodes.
	childsArr *[]*RuneNode       // The child nodes in an array, for precedence
}

func newRuneTree() *RuneNode {
	children := make([]*RuneNode, 0)
	return &RuneNode{
		runes:     []rune{},
		childs:    make(map[rune]*RuneNode, 0),
		childsArr: &children,
	}
}

func (node *RuneNode) evaluate(r rune) (*RuneNode, bool) {
	// If the node has an array of children, use that. The array exists if the
	// node has less than 10 children, and is used to speed up the evaluation
	// of the node.
	if node.childsArr != nil {
		children := *node.childsArr
		for _, child := range children {
			if child.rune == r {
				return child, child.terminal
			}
		}
	} else {
		child, ok := node.childs[r]
		if ok {
			return child, child.terminal
		}
	}
	return nil, false
}

// find walks the tree along key and returns the node the key ends at.
func (root *RuneNode) find(key string) *RuneNode {
	node := root
	for _, r := range key {
		if node, _ = node.evaluate(r); node == nil {
			return nil
		}
	}
	return node
}

// insert adds key to the tree and returns the node holding it.
func (root *RuneNode) insert(key string) *RuneNode {
	keyRunes := []rune(key)
	keyLen := len(keyRunes)
	node := root
	for i := 0; i < keyLen; i++ {
		r := keyRunes[i]
		if _, ok := node.childs[r]; !ok {
			children := make([]*RuneNode, 0)
			node.childs[r] = &RuneNode{
				rune:      r,
				runes:     keyRunes[:i+1],
				childs:    make(map[rune]*RuneNode, 0),
				childsArr: &children,
			}
		}
		if len(node.childs) > 10 {
			// If there are more than 10 children, we set the array pointer
			// to nil, so that we can use the map instead.
			node.childsArr = nil
		} else {
			if node.childsArr == nil {
				children := make([]*RuneNode, 0)
				node.childsArr = &children
			}
			if len(node.childs) != len(*node.childsArr) {
				*node.childsArr = append(*node.childsArr, node.childs[r])
			}
		}
		node = node.childs[r]
	}
	node.terminal = true
	return node
}

// sortedChilds returns the children ordered by rune, the order they are
// serialized in.
func (node *RuneNode) sortedChilds() []*RuneNode {
	children := make([]*RuneNode, 0, len(node.childs))
	for _, child := range node.childs {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].rune < children[j].rune
	})
	return children
}

// Represent the tree as a string by traversing the tree, and using tree
// characters to represent the tree structure.
func (node *RuneNode) string(level int) string {
	if node == nil {
		return ""
	}
	s := ""
	if len(node.runes) > 0 {
		s = string(node.rune)
	}
	if node.terminal {
		s += "*"
	}
	children := node.sortedChilds()
	if len(children) == 1 {
		// Follow the only child recursively until we find a node with more
		// than one child.
		return s + children[0].string(level)
	}
	level += 1
	s += "\n"

	for idx, child := range children {
		childPrefix := strings.Repeat("| ", level-1)
		// If we're the last child, then we prepend with a tree terminator.
		if idx == len(children)-1 {
			childPrefix += "└─"
		} else {
			childPrefix += "├─"
		}
		s += childPrefix + child.string(level)
	}
	return s
}

// Wrapper
func (node *RuneNode) String() string {
	return node.string(0)
}
