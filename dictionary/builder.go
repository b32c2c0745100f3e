package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wbrown/uk_stress/tags"
)

var ErrDuplicateKey = errors.New("duplicate dictionary key")

// Builder accumulates keys and values in a rune trie, and serializes the
// trie into the flat dictionary file layout.
type Builder struct {
	root *RuneNode
	keys int
}

func NewBuilder() *Builder {
	return &Builder{root: newRuneTree()}
}

// Insert adds a key. Keys are unique; inserting a key twice is an error.
func (b *Builder) Insert(key string, value []byte) error {
	if key == "" {
		return errors.New("empty dictionary key")
	}
	if len(value) > math.MaxUint16 {
		return fmt.Errorf("value for %q is too long: %d bytes", key,
			len(value))
	}
	if existing := b.root.find(key); existing != nil && existing.terminal {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	node := b.root.insert(key)
	node.value = append([]byte{}, value...)
	b.keys++
	return nil
}

// Get returns the value inserted under key.
func (b *Builder) Get(key string) ([]byte, bool) {
	node := b.root.find(key)
	if node == nil || !node.terminal {
		return nil, false
	}
	return node.value, true
}

func (b *Builder) Len() int {
	return b.keys
}

// Tree exposes the underlying trie, mostly for debugging output.
func (b *Builder) Tree() *RuneNode {
	return b.root
}

// WriteTo serializes the dictionary. Nodes are laid out breadth first, so
// the children of every node occupy a contiguous run of edges, sorted by
// rune.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	nodes := make([]flatNode, 0, b.keys*2)
	edges := make([]flatEdge, 0, b.keys*2)
	values := make([]byte, 0, b.keys*4)

	queue := []*RuneNode{b.root}
	nodes = append(nodes, flatNode{})
	for idx := 0; idx < len(queue); idx++ {
		node := queue[idx]
		flat := flatNode{ValueIdx: noValue}
		if node.terminal {
			flat.ValueIdx = uint32(len(values))
			flat.ValueLen = uint16(len(node.value))
			values = append(values, node.value...)
		}
		children := node.sortedChilds()
		flat.EdgesIdx = uint32(len(edges))
		flat.EdgesLen = uint16(len(children))
		for _, child := range children {
			edges = append(edges, flatEdge{
				Char:   uint32(child.rune),
				NodeID: uint32(len(queue)),
			})
			queue = append(queue, child)
			nodes = append(nodes, flatNode{})
		}
		nodes[idx] = flat
	}
	if len(values) > math.MaxUint32-1 {
		return 0, errors.New("dictionary values exceed the file format")
	}

	hdr := header{
		Magic:       magic,
		Version:     formatVersion,
		TagChecksum: tags.Checksum(),
		Keys:        uint32(b.keys),
		NodesCount:  uint32(len(nodes)),
		EdgesCount:  uint32(len(edges)),
		ValuesLen:   uint32(len(values)),
	}

	cw := &countingWriter{w: w}
	buf := bufio.NewWriterSize(cw, 1<<20)
	if err := binary.Write(buf, binary.LittleEndian, &hdr); err != nil {
		return cw.n, err
	}
	var scratch [nodeSize]byte
	for _, node := range nodes {
		node.put(scratch[:])
		if _, err := buf.Write(scratch[:nodeSize]); err != nil {
			return cw.n, err
		}
	}
	for _, edge := range edges {
		edge.put(scratch[:])
		if _, err := buf.Write(scratch[:edgeSize]); err != nil {
			return cw.n, err
		}
	}
	if _, err := buf.Write(values); err != nil {
		return cw.n, err
	}
	err := buf.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
