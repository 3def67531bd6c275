// Package hierarchy builds and traverses the category forest. Categories
// are flat rows keyed by id with a nullable parent id; traversal is an
// explicit stack walk with a visited set rather than a recursive database
// query, so malformed parent links can never loop forever.
package hierarchy

import (
	"iter"
	"sort"

	"github.com/shopseed/shopseed/internal/catalog/domain"
)

// Resolver is an immutable snapshot of the category forest. It is a pure
// function of the rows it was built from; rebuild it after category writes.
type Resolver struct {
	byID     map[uint]domain.Category
	children map[uint][]uint
	roots    []uint
}

// NewResolver builds a resolver from flat category rows
func NewResolver(categories []domain.Category) *Resolver {
	r := &Resolver{
		byID:     make(map[uint]domain.Category, len(categories)),
		children: make(map[uint][]uint),
	}

	for _, c := range categories {
		r.byID[c.ID] = c
	}
	for _, c := range categories {
		if c.ParentID == nil {
			r.roots = append(r.roots, c.ID)
			continue
		}
		if _, ok := r.byID[*c.ParentID]; !ok {
			// dangling parent reference; treat as a root so the node
			// still appears exactly once
			r.roots = append(r.roots, c.ID)
			continue
		}
		r.children[*c.ParentID] = append(r.children[*c.ParentID], c.ID)
	}

	r.sortSiblings(r.roots)
	for _, ids := range r.children {
		r.sortSiblings(ids)
	}
	return r
}

// sortSiblings orders ids by (name, id) for deterministic traversal
func (r *Resolver) sortSiblings(ids []uint) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.byID[ids[i]], r.byID[ids[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// Len returns the number of categories in the forest
func (r *Resolver) Len() int {
	return len(r.byID)
}

// Roots returns the root categories in traversal order
func (r *Resolver) Roots() []domain.Category {
	out := make([]domain.Category, 0, len(r.roots))
	for _, id := range r.roots {
		out = append(out, r.byID[id])
	}
	return out
}

// Traverse returns a lazy depth-first sequence of (category, depth) pairs,
// roots first, siblings ordered by (name, id). Each node is yielded exactly
// once; the sequence is finite even if the underlying rows contain a parent
// cycle. The sequence is restartable and never mutates the resolver.
func (r *Resolver) Traverse() iter.Seq2[domain.Category, int] {
	return func(yield func(domain.Category, int) bool) {
		type frame struct {
			id    uint
			depth int
		}

		stack := make([]frame, 0, len(r.byID))
		// push roots in reverse so the first root is popped first
		for i := len(r.roots) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: r.roots[i]})
		}

		visited := make(map[uint]bool, len(r.byID))
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if visited[top.id] {
				continue
			}
			visited[top.id] = true

			if !yield(r.byID[top.id], top.depth) {
				return
			}

			kids := r.children[top.id]
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, frame{id: kids[i], depth: top.depth + 1})
			}
		}
	}
}

// WouldCycle reports whether assigning parentID as the parent of the
// category with the given id would create a cycle. parents maps each
// category id to its current parent id (nil for roots). id may be zero for
// a category that does not exist yet; a fresh node can never be an ancestor,
// but the walk still verifies the parent chain terminates.
func WouldCycle(parents map[uint]*uint, id, parentID uint) bool {
	seen := make(map[uint]bool)
	cur := parentID
	for {
		if id != 0 && cur == id {
			return true
		}
		if seen[cur] {
			// pre-existing cycle above the insertion point
			return true
		}
		seen[cur] = true

		p, ok := parents[cur]
		if !ok || p == nil {
			return false
		}
		cur = *p
	}
}
