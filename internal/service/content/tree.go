package content

import (
	"slices"
	"strings"

	models "lmscontent/internal/domain/models/content"
)

// Forest is the folder hierarchy of one batch.
type Forest struct {
	Roots []*models.TreeNode
	// Index maps a normalized folder id to its node. Duplicate ids keep the
	// first folder seen.
	Index map[string]*models.TreeNode

	parents map[*models.TreeNode]*models.TreeNode
}

// BuildTree assembles a forest from a flat folder list.
//
// Every input folder appears exactly once, either as a root or as the child
// of one parent. Folders whose parent is missing, themselves, or a repeated
// id are promoted to roots, as is one member of any parent cycle.
// Sibling order follows input order.
func BuildTree(folders []models.Folder) *Forest {
	nodes := make([]*models.TreeNode, len(folders))
	pos := make(map[string]int, len(folders))
	index := make(map[string]*models.TreeNode, len(folders))
	duplicate := make([]bool, len(folders))

	// First pass: one node per folder
	for i, f := range folders {
		nodes[i] = &models.TreeNode{
			Folder:   f,
			Children: []*models.TreeNode{},
			Files:    []models.ContentItem{},
		}
		id := NormalizeID(f.ID)
		if id == "" {
			continue
		}
		if _, seen := pos[id]; seen {
			duplicate[i] = true
			continue
		}
		pos[id] = i
		index[id] = nodes[i]
	}

	// Second pass: resolve parents
	parent := make([]int, len(folders))
	for i, f := range folders {
		parent[i] = -1
		if duplicate[i] {
			continue
		}
		pid := ResolveParent(f.ParentID)
		if pid == "" {
			continue
		}
		if p, ok := lookup(pos, pid); ok && p != i {
			parent[i] = p
		}
	}
	breakCycles(parent)

	// Third pass: link in input order
	forest := &Forest{
		Roots:   []*models.TreeNode{},
		Index:   index,
		parents: make(map[*models.TreeNode]*models.TreeNode, len(folders)),
	}
	for i, node := range nodes {
		if parent[i] < 0 {
			forest.Roots = append(forest.Roots, node)
			continue
		}
		p := nodes[parent[i]]
		p.Children = append(p.Children, node)
		forest.parents[node] = p
	}
	return forest
}

// lookup finds an id exactly, then by numeric equality.
func lookup(pos map[string]int, id string) (int, bool) {
	if p, ok := pos[id]; ok {
		return p, true
	}
	for key, p := range pos {
		if SameID(key, id) {
			return p, true
		}
	}
	return 0, false
}

// breakCycles detaches the earliest folder of every parent cycle.
func breakCycles(parent []int) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(parent))
	for i := range parent {
		var path []int
		j := i
		for j >= 0 && state[j] == unvisited {
			state[j] = visiting
			path = append(path, j)
			j = parent[j]
		}
		if j >= 0 && state[j] == visiting {
			start := slices.Index(path, j)
			parent[slices.Min(path[start:])] = -1
		}
		for _, k := range path {
			state[k] = done
		}
	}
}

// Find returns the node for a folder id, tolerating numeric spellings.
func (f *Forest) Find(id string) (*models.TreeNode, bool) {
	id = NormalizeID(id)
	if id == "" {
		return nil, false
	}
	if node, ok := f.Index[id]; ok {
		return node, true
	}
	for key, node := range f.Index {
		if SameID(key, id) {
			return node, true
		}
	}
	return nil, false
}

// Ancestors returns the chain from the root down to the folder's parent.
func (f *Forest) Ancestors(id string) []*models.TreeNode {
	node, ok := f.Find(id)
	if !ok {
		return nil
	}
	var chain []*models.TreeNode
	for p := f.parents[node]; p != nil; p = f.parents[p] {
		chain = append(chain, p)
	}
	slices.Reverse(chain)
	return chain
}

// IsDescendant reports whether candidate lies in the subtree below ancestor.
func (f *Forest) IsDescendant(ancestorID, candidateID string) bool {
	anc, ok := f.Find(ancestorID)
	if !ok {
		return false
	}
	for _, n := range f.Ancestors(candidateID) {
		if n == anc {
			return true
		}
	}
	return false
}

// Subtree returns the node for id and every folder below it, parents first.
func (f *Forest) Subtree(id string) []*models.TreeNode {
	node, ok := f.Find(id)
	if !ok {
		return nil
	}
	var out []*models.TreeNode
	walk(node, 0, func(n *models.TreeNode, _ int) { out = append(out, n) })
	return out
}

// Walk visits every node depth-first, roots in order.
func (f *Forest) Walk(fn func(node *models.TreeNode, depth int)) {
	for _, r := range f.Roots {
		walk(r, 0, fn)
	}
}

func walk(n *models.TreeNode, depth int, fn func(*models.TreeNode, int)) {
	fn(n, depth)
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Len counts the folders placed in the forest.
func (f *Forest) Len() int {
	n := 0
	f.Walk(func(*models.TreeNode, int) { n++ })
	return n
}

// Sort orders roots and children by name for display. Only the forest's
// own slices are reordered.
func (f *Forest) Sort() {
	byName := func(a, b *models.TreeNode) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	slices.SortStableFunc(f.Roots, byName)
	f.Walk(func(n *models.TreeNode, _ int) {
		slices.SortStableFunc(n.Children, byName)
	})
}

// AssociateFiles attaches items to their folder nodes. Items with no folder
// go to rootFiles; items whose folder is not in the forest go to unplaced.
func AssociateFiles(forest *Forest, items []models.ContentItem) (rootFiles, unplaced []models.ContentItem) {
	rootFiles = []models.ContentItem{}
	unplaced = []models.ContentItem{}
	for _, item := range items {
		fid := ResolveParent(item.FolderID)
		if fid == "" {
			rootFiles = append(rootFiles, item)
			continue
		}
		if node, ok := forest.Find(fid); ok {
			node.Files = append(node.Files, item)
			continue
		}
		unplaced = append(unplaced, item)
	}
	return rootFiles, unplaced
}
