package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopseed/shopseed/internal/catalog/domain"
)

func ptr(v uint) *uint { return &v }

func forest() []domain.Category {
	return []domain.Category{
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Clothing"},
		{ID: 3, Name: "Smartphones", ParentID: ptr(1)},
		{ID: 4, Name: "Laptops", ParentID: ptr(1)},
		{ID: 5, Name: "Gaming Laptops", ParentID: ptr(4)},
		{ID: 6, Name: "Men's", ParentID: ptr(2)},
	}
}

func collect(r *Resolver) ([]string, []int) {
	var names []string
	var depths []int
	for c, depth := range r.Traverse() {
		names = append(names, c.Name)
		depths = append(depths, depth)
	}
	return names, depths
}

func TestTraverseOrder(t *testing.T) {
	r := NewResolver(forest())

	names, depths := collect(r)
	assert.Equal(t, []string{
		"Clothing", "Men's",
		"Electronics", "Laptops", "Gaming Laptops", "Smartphones",
	}, names)
	assert.Equal(t, []int{0, 1, 0, 1, 2, 1}, depths)
}

func TestTraverseYieldsEachNodeOnce(t *testing.T) {
	r := NewResolver(forest())

	seen := make(map[uint]int)
	for c := range r.Traverse() {
		seen[c.ID]++
	}
	require.Len(t, seen, r.Len())
	for id, n := range seen {
		assert.Equalf(t, 1, n, "category %d yielded %d times", id, n)
	}
}

func TestTraverseRestartable(t *testing.T) {
	r := NewResolver(forest())

	first, _ := collect(r)
	second, _ := collect(r)
	assert.Equal(t, first, second)
}

func TestTraverseEarlyStop(t *testing.T) {
	r := NewResolver(forest())

	var names []string
	for c := range r.Traverse() {
		names = append(names, c.Name)
		if len(names) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"Clothing", "Men's"}, names)
}

func TestTraverseEmpty(t *testing.T) {
	r := NewResolver(nil)

	assert.Zero(t, r.Len())
	assert.Empty(t, r.Roots())
	for range r.Traverse() {
		t.Fatal("empty forest yielded a node")
	}
}

func TestSiblingsSortedByNameThenID(t *testing.T) {
	r := NewResolver([]domain.Category{
		{ID: 3, Name: "Books"},
		{ID: 1, Name: "Books"},
		{ID: 2, Name: "Art"},
	})

	roots := r.Roots()
	require.Len(t, roots, 3)
	assert.Equal(t, uint(2), roots[0].ID)
	assert.Equal(t, uint(1), roots[1].ID)
	assert.Equal(t, uint(3), roots[2].ID)
}

func TestDanglingParentTreatedAsRoot(t *testing.T) {
	r := NewResolver([]domain.Category{
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Orphan", ParentID: ptr(99)},
	})

	names, depths := collect(r)
	assert.Equal(t, []string{"Electronics", "Orphan"}, names)
	assert.Equal(t, []int{0, 0}, depths)
}

func TestTraverseTerminatesOnCorruptRows(t *testing.T) {
	// two nodes pointing at each other are unreachable from any root;
	// the walk must still terminate
	r := NewResolver([]domain.Category{
		{ID: 1, Name: "A", ParentID: ptr(2)},
		{ID: 2, Name: "B", ParentID: ptr(1)},
		{ID: 3, Name: "C"},
	})

	var names []string
	for c := range r.Traverse() {
		names = append(names, c.Name)
		require.LessOrEqual(t, len(names), 3)
	}
	assert.Equal(t, []string{"C"}, names)
}

func TestRoundTrip(t *testing.T) {
	rows := forest()
	r := NewResolver(rows)

	var flat []domain.Category
	for c := range r.Traverse() {
		flat = append(flat, c)
	}
	require.Len(t, flat, len(rows))

	again, _ := collect(NewResolver(flat))
	names, _ := collect(r)
	assert.Equal(t, names, again)
}

func TestWouldCycle(t *testing.T) {
	parents := map[uint]*uint{
		1: nil,
		2: ptr(1),
		3: ptr(2),
	}

	assert.True(t, WouldCycle(parents, 1, 1), "self parent")
	assert.True(t, WouldCycle(parents, 1, 3), "parent is a descendant")
	assert.True(t, WouldCycle(parents, 2, 3), "parent is a child")
	assert.False(t, WouldCycle(parents, 3, 1), "re-parent to ancestor is fine")
	assert.False(t, WouldCycle(parents, 0, 3), "fresh node cannot cycle")
	assert.False(t, WouldCycle(parents, 4, 2), "unrelated node")
}
