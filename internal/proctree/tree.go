// Package proctree arranges a flat, filtered process list into a
// resource-ranked forest using the OS parent/child relation.
package proctree

import "sort"

// Node is one process in the forest. Children are ordered by descending
// CPU; equal values keep discovery order.
type Node struct {
	PID        int32   `json:"pid"`
	PPID       int32   `json:"ppid"`
	Name       string  `json:"name"`
	Script     string  `json:"script,omitempty"`
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb"`
	Depth      int     `json:"depth"`
	Children   []*Node `json:"children,omitempty"`
}

// Build constructs a forest from the filtered process set. A node whose
// parent is absent from the set (no parent at all, or filtered out)
// is promoted to a forest root at depth 0; that promotion is the whole
// point of filtering the tree view, not a defect. The input is never
// mutated; a fresh forest is produced on every call.
func Build(procs []Node, parents map[int32]int32) []*Node {
	if len(procs) == 0 {
		return nil
	}
	index := make(map[int32]*Node, len(procs))
	nodes := make([]*Node, len(procs))
	for i := range procs {
		n := procs[i] // copy
		n.Children = nil
		n.Depth = 0
		nodes[i] = &n
		index[n.PID] = &n
	}

	var roots []*Node
	for _, n := range nodes {
		ppid, ok := parents[n.PID]
		if !ok {
			ppid = n.PPID
		}
		parent, found := index[ppid]
		if !found || ppid == n.PID {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	for _, r := range roots {
		assignDepth(r, 0)
	}
	sortForest(roots)
	return roots
}

// Flatten walks the forest depth-first in pre-order.
func Flatten(roots []*Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}

func assignDepth(n *Node, depth int) {
	n.Depth = depth
	for _, c := range n.Children {
		assignDepth(c, depth+1)
	}
}

func sortForest(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CPUPercent > nodes[j].CPUPercent
	})
	for _, n := range nodes {
		sortForest(n.Children)
	}
}
