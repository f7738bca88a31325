package catalog

import "sort"

// Node is the slice of a category needed to walk the tree.
type Node struct {
	ID       string
	ParentID string
}

// Descendants returns root plus every category reachable from it by
// following child to parent links, sorted. An unknown root yields an empty
// result. Cycles and dangling parents are tolerated: each id is visited at
// most once.
//
// The whole category set is walked per call, O(len(nodes)) after indexing.
func Descendants(nodes []Node, root string) []string {
	children := make(map[string][]string, len(nodes))
	known := false
	for _, n := range nodes {
		if n.ID == root {
			known = true
		}
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		}
	}
	if !known {
		return []string{}
	}

	visited := map[string]struct{}{root: {}}
	stack := []string{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range children[id] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			stack = append(stack, child)
		}
	}

	ids := make([]string, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
