// Package dictionary implements the compiled stress dictionary: an
// immutable, prefix-sharing trie that maps accent-stripped word forms to
// serialized stress records.
package dictionary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/wbrown/uk_stress/resources"
	"github.com/wbrown/uk_stress/tags"
)

const formatVersion uint16 = 1

var magic = [4]byte{'U', 'K', 'S', 'T'}

var (
	ErrBadHeader        = errors.New("bad dictionary header")
	ErrTagTableMismatch = errors.New("dictionary compiled with a different tag table")
)

type header struct {
	Magic       [4]byte
	Version     uint16
	Reserved    uint16
	TagChecksum uint32
	Keys        uint32
	NodesCount  uint32
	EdgesCount  uint32
	ValuesLen   uint32
}

const (
	nodeSize = 12
	edgeSize = 8
	noValue  = ^uint32(0)
)

type flatNode struct {
	EdgesIdx uint32
	ValueIdx uint32
	EdgesLen uint16
	ValueLen uint16
}

func (node flatNode) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], node.EdgesIdx)
	binary.LittleEndian.PutUint32(b[4:], node.ValueIdx)
	binary.LittleEndian.PutUint16(b[8:], node.EdgesLen)
	binary.LittleEndian.PutUint16(b[10:], node.ValueLen)
}

type flatEdge struct {
	Char   uint32
	NodeID uint32
}

func (edge flatEdge) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], edge.Char)
	binary.LittleEndian.PutUint32(b[4:], edge.NodeID)
}

// Dictionary is a read-only view over a serialized dictionary. Lookups do
// not mutate anything, so a Dictionary can be shared between goroutines.
type Dictionary struct {
	nodes  []byte
	edges  []byte
	values []byte
	keys   int
	rsrc   *resources.ResourceEntry
}

// FromBytes wraps serialized dictionary data. The data is not copied and
// must not be modified while the dictionary is in use.
func FromBytes(data []byte) (*Dictionary, error) {
	var hdr header
	headerSize := binary.Size(hdr)
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file too small", ErrBadHeader)
	}
	if err := binary.Read(bytes.NewReader(data[:headerSize]),
		binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if hdr.Magic != magic {
		return nil, fmt.Errorf("%w: bad signature", ErrBadHeader)
	}
	if hdr.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadHeader,
			hdr.Version)
	}
	if hdr.TagChecksum != tags.Checksum() {
		return nil, fmt.Errorf("%w: checksum %08x, expected %08x",
			ErrTagTableMismatch, hdr.TagChecksum, tags.Checksum())
	}
	if hdr.NodesCount == 0 {
		return nil, fmt.Errorf("%w: no root node", ErrBadHeader)
	}
	nodesEnd := uint64(headerSize) + uint64(hdr.NodesCount)*nodeSize
	edgesEnd := nodesEnd + uint64(hdr.EdgesCount)*edgeSize
	valuesEnd := edgesEnd + uint64(hdr.ValuesLen)
	if valuesEnd != uint64(len(data)) {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrBadHeader, valuesEnd, len(data))
	}
	return &Dictionary{
		nodes:  data[headerSize:nodesEnd],
		edges:  data[nodesEnd:edgesEnd],
		values: data[edgesEnd:valuesEnd],
		keys:   int(hdr.Keys),
	}, nil
}

// Load resolves location (a file, a directory or an HTTP base URL) and maps
// the dictionary into memory.
func Load(location string, cacheDir string) (*Dictionary, error) {
	rsrc, err := resources.ResolveDictionary(location, cacheDir)
	if err != nil {
		return nil, err
	}
	dict, err := FromBytes(*rsrc.Data)
	if err != nil {
		rsrc.Cleanup()
		return nil, fmt.Errorf("%s: %w", rsrc.Path, err)
	}
	dict.rsrc = rsrc
	return dict, nil
}

// Close releases the mapping behind a loaded dictionary. The dictionary must
// not be used afterwards.
func (d *Dictionary) Close() error {
	if d.rsrc == nil {
		return nil
	}
	err := d.rsrc.Cleanup()
	d.rsrc = nil
	return err
}

// Len returns the number of keys.
func (d *Dictionary) Len() int {
	return d.keys
}

func (d *Dictionary) nodeCount() uint32 {
	return uint32(len(d.nodes) / nodeSize)
}

func (d *Dictionary) node(id uint32) (flatNode, bool) {
	if id >= d.nodeCount() {
		return flatNode{}, false
	}
	b := d.nodes[id*nodeSize:]
	return flatNode{
		EdgesIdx: binary.LittleEndian.Uint32(b[0:]),
		ValueIdx: binary.LittleEndian.Uint32(b[4:]),
		EdgesLen: binary.LittleEndian.Uint16(b[8:]),
		ValueLen: binary.LittleEndian.Uint16(b[10:]),
	}, true
}

func (d *Dictionary) edge(idx uint32) flatEdge {
	b := d.edges[idx*edgeSize:]
	return flatEdge{
		Char:   binary.LittleEndian.Uint32(b[0:]),
		NodeID: binary.LittleEndian.Uint32(b[4:]),
	}
}

func (d *Dictionary) edgesOf(node flatNode) (uint32, uint32, bool) {
	start := node.EdgesIdx
	end := start + uint32(node.EdgesLen)
	if end > uint32(len(d.edges)/edgeSize) || end < start {
		return 0, 0, false
	}
	return start, end, true
}

// child finds the edge labelled r with a binary search over the node's
// sorted edges.
func (d *Dictionary) child(node flatNode, r rune) (uint32, bool) {
	start, end, ok := d.edgesOf(node)
	if !ok || start == end {
		return 0, false
	}
	n := int(end - start)
	i := sort.Search(n, func(i int) bool {
		return d.edge(start+uint32(i)).Char >= uint32(r)
	})
	if i < n {
		if e := d.edge(start + uint32(i)); e.Char == uint32(r) {
			return e.NodeID, true
		}
	}
	return 0, false
}

func (d *Dictionary) value(node flatNode) ([]byte, bool) {
	if node.ValueIdx == noValue {
		return nil, false
	}
	end := uint64(node.ValueIdx) + uint64(node.ValueLen)
	if end > uint64(len(d.values)) {
		return nil, false
	}
	return d.values[node.ValueIdx:end], true
}

// Get returns the record stored under key. The returned slice aliases the
// dictionary data and must not be modified.
func (d *Dictionary) Get(key string) ([]byte, bool) {
	id := uint32(0)
	node, ok := d.node(id)
	if !ok {
		return nil, false
	}
	for _, r := range key {
		if id, ok = d.child(node, r); !ok {
			return nil, false
		}
		if node, ok = d.node(id); !ok {
			return nil, false
		}
	}
	return d.value(node)
}

func (d *Dictionary) Contains(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Walk visits every key in rune order. Returning an error from fn stops the
// walk and returns that error.
func (d *Dictionary) Walk(fn func(key string, value []byte) error) error {
	return d.walk(0, make([]rune, 0, 32), fn, 0)
}

func (d *Dictionary) walk(id uint32, prefix []rune,
	fn func(key string, value []byte) error, depth int) error {
	if depth > len(d.nodes) {
		return fmt.Errorf("%w: cycle in trie", ErrBadHeader)
	}
	node, ok := d.node(id)
	if !ok {
		return fmt.Errorf("%w: node %d out of range", ErrBadHeader, id)
	}
	if node.ValueIdx != noValue {
		value, ok := d.value(node)
		if !ok {
			return fmt.Errorf("%w: value of %q out of range", ErrBadHeader,
				string(prefix))
		}
		if err := fn(string(prefix), value); err != nil {
			return err
		}
	}
	start, end, ok := d.edgesOf(node)
	if !ok {
		return fmt.Errorf("%w: edges of %q out of range", ErrBadHeader,
			string(prefix))
	}
	for idx := start; idx < end; idx++ {
		e := d.edge(idx)
		if err := d.walk(e.NodeID, append(prefix, rune(e.Char)), fn,
			depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Verify walks the whole dictionary, checking its structure and decoding
// every record. It returns the number of keys seen.
func (d *Dictionary) Verify() (int, error) {
	seen := 0
	err := d.Walk(func(key string, value []byte) error {
		if _, err := DecodeRecord(value); err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		seen++
		return nil
	})
	if err == nil && seen != d.keys {
		err = fmt.Errorf("%w: header lists %d keys, found %d",
			ErrBadHeader, d.keys, seen)
	}
	return seen, err
}
