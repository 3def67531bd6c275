package query

import (
	"fmt"
	"strings"

	"github.com/shopseed/shopseed/internal/catalog/hierarchy"
)

// CategoryTree renders the category forest with two spaces of indentation
// per depth level, in the resolver's deterministic traversal order.
func (q *Queries) CategoryTree() (string, error) {
	cats, err := q.store.Categories()
	if err != nil {
		return "", fmt.Errorf("failed to load categories: %w", err)
	}

	var b strings.Builder
	for cat, depth := range hierarchy.NewResolver(cats).Traverse() {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(cat.Name)
		if !cat.IsActive {
			b.WriteString(" (inactive)")
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
