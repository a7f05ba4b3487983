package knotctl

import "sort"

// Tree is the nested string-keyed mapping a control reply decodes into.
// Depth and shape vary by command: `stats` nests section -> item -> optional
// id, `zone-stats` adds a leading zone level, block-style replies
// (`zone-status`, `zone-read`) nest zone -> item or zone -> owner -> rtype.
type Tree map[string]*Node

// Node is one position in a Tree: either a terminal value (leaf) or a nested
// mapping, never both.
type Node struct {
	children Tree
	values   []string
}

// NewLeaf returns a terminal node holding the given values.
func NewLeaf(values ...string) *Node {
	return &Node{values: values}
}

// NewNode returns an interior node with the given children.
func NewNode(children Tree) *Node {
	return &Node{children: children}
}

// IsLeaf reports whether the node is terminal.
func (n *Node) IsLeaf() bool {
	return n.children == nil
}

// Value returns the node's first value, or "" for interior or empty nodes.
func (n *Node) Value() string {
	if len(n.values) == 0 {
		return ""
	}

	return n.values[0]
}

// Values returns all values held by a leaf, in the order received.
func (n *Node) Values() []string {
	return n.values
}

// Children returns the nested mapping of an interior node, nil for leaves.
func (n *Node) Children() Tree {
	return n.children
}

// Keys returns the tree's keys in sorted order, so that consumers walking the
// tree produce a stable output.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// child returns the named child of an interior node, materializing it (and
// the children mapping) when absent.
func (n *Node) child(key string) *Node {
	if n.children == nil {
		n.children = Tree{}
	}

	c, found := n.children[key]
	if !found {
		c = &Node{}
		n.children[key] = c
	}

	return c
}

// insert places one received data unit into the tree.
//
// The unit's present keys form the path from the root: zone, then owner (for
// record-style replies), then section/item/id (stats-style) or type
// (block-style). Record-style units additionally fan out into fixed "ttl"
// and "data" leaves below the rtype node, with rdata strings appended in
// arrival order.
func (t Tree) insert(u unit) {
	var path []string

	record := false
	if v, ok := u.items[idxZone]; ok {
		path = append(path, v)
	}
	if v, ok := u.items[idxOwner]; ok {
		path = append(path, v)
		record = true
	}
	for _, idx := range []dataIdx{idxSection, idxItem, idxID} {
		if v, ok := u.items[idx]; ok {
			path = append(path, v)
		}
	}
	if v, ok := u.items[idxType]; ok {
		path = append(path, v)
	}

	if len(path) == 0 {
		return
	}

	node, found := t[path[0]]
	if !found {
		node = &Node{}
		t[path[0]] = node
	}
	for _, key := range path[1:] {
		node = node.child(key)
	}

	if record {
		if ttl, ok := u.items[idxTTL]; ok {
			node.child("ttl").values = []string{ttl}
		}
		if data, ok := u.items[idxData]; ok {
			dataNode := node.child("data")
			dataNode.values = append(dataNode.values, data)
		}

		return
	}

	if data, ok := u.items[idxData]; ok {
		node.values = append(node.values, data)
	}
}
