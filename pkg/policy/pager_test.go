package policy_test

import (
	"testing"

	"moderation/pkg/domain"
	"moderation/pkg/policy"

	"github.com/stretchr/testify/require"
)

type item struct {
	domain.Meta
	Name string
}

func newItem(id, modified int64, name string) item {
	return item{Meta: domain.Meta{ID: id, Created: 1, Modified: modified}, Name: name}
}

func byName(a, b item) int {
	return policy.CompareString(func(i item) string { return i.Name })(a, b)
}

func byModified(a, b item) int {
	return policy.CompareInt64(func(i item) int64 { return i.Modified })(a, b)
}

func TestPaginateFiltersAndSorts(t *testing.T) {
	items := []item{
		newItem(3, 300, "charlie"),
		newItem(1, 100, "alpha"),
		newItem(2, 200, "bravo"),
	}

	t.Run("ascending by name", func(t *testing.T) {
		env := policy.Paginate(items, policy.QueryParameters{Size: 10, Sort: "name"}, byName)
		require.Equal(t, 3, env.TotalElements)
		require.Equal(t, 1, env.TotalPages)
		require.Equal(t, 3, env.Count)
		require.Equal(t, int64(300), env.LastModified)
		require.Equal(t, "alpha", env.Content[0].Name)
		require.Equal(t, "charlie", env.Content[2].Name)
	})

	t.Run("descending by modified", func(t *testing.T) {
		env := policy.Paginate(items, policy.QueryParameters{Size: 10, Order: policy.OrderDesc}, byModified)
		require.Equal(t, int64(3), env.Content[0].ID)
		require.Equal(t, int64(1), env.Content[2].ID)
	})

	t.Run("modifiedAfter is exclusive", func(t *testing.T) {
		env := policy.Paginate(items, policy.QueryParameters{Size: 10, ModifiedAfter: 200}, byModified)
		require.Equal(t, 1, env.TotalElements)
		require.Equal(t, int64(3), env.Content[0].ID)
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		_ = policy.Paginate(items, policy.QueryParameters{Size: 1}, byName)
		require.Equal(t, int64(3), items[0].ID, "pager must not mutate its input")
	})
}

func TestPaginateTieBreakByID(t *testing.T) {
	items := []item{
		newItem(5, 100, "same"),
		newItem(2, 100, "same"),
		newItem(9, 100, "same"),
	}

	t.Run("ascending", func(t *testing.T) {
		env := policy.Paginate(items, policy.QueryParameters{Size: 10}, byName)
		require.Equal(t, []int64{2, 5, 9}, ids(env.Content))
	})

	t.Run("descending keeps id ascending for ties", func(t *testing.T) {
		env := policy.Paginate(items, policy.QueryParameters{Size: 10, Order: policy.OrderDesc}, byName)
		require.Equal(t, []int64{2, 5, 9}, ids(env.Content))
	})
}

func TestPaginateCompleteness(t *testing.T) {
	var items []item
	for i := int64(1); i <= 23; i++ {
		items = append(items, newItem(i, i*10, "n"))
	}

	for _, size := range []int{1, 4, 7, 23, 50} {
		var collected []int64
		page := 0
		for {
			env := policy.Paginate(items, policy.QueryParameters{Page: page, Size: size}, byModified)
			collected = append(collected, ids(env.Content)...)
			page++
			if page >= env.TotalPages {
				break
			}
		}
		require.Len(t, collected, len(items), "size %d must reproduce the full set", size)
		seen := map[int64]bool{}
		for _, id := range collected {
			require.False(t, seen[id], "size %d produced duplicate id %d", size, id)
			seen[id] = true
		}
	}
}

func TestPaginateLastModifiedCoversUnslicedSet(t *testing.T) {
	items := []item{
		newItem(1, 100, "a"),
		newItem(2, 900, "b"),
		newItem(3, 300, "c"),
	}

	env := policy.Paginate(items, policy.QueryParameters{Page: 0, Size: 1}, byName)
	require.Equal(t, 1, env.Count)
	require.Equal(t, int64(1), env.Content[0].ID)
	require.Equal(t, int64(900), env.LastModified,
		"watermark must cover elements outside the returned page")

	// polling again from the watermark yields an empty page
	next := policy.Paginate(items, policy.QueryParameters{Size: 1, ModifiedAfter: env.LastModified}, byName)
	require.Zero(t, next.TotalElements)
	require.Zero(t, next.Count)
}

func TestPaginateEmptyResultKeepsPaginationMath(t *testing.T) {
	env := policy.Paginate(nil, policy.QueryParameters{Page: 0, Size: 5}, byName)
	require.Equal(t, 0, env.TotalElements)
	require.Equal(t, 1, env.TotalPages, "empty collections still report one page")
	require.Equal(t, 5, env.Size)
	require.Equal(t, 0, env.Count)
	require.Zero(t, env.LastModified)
}

func TestPaginateNormalizesParameters(t *testing.T) {
	items := []item{newItem(1, 10, "a")}
	env := policy.Paginate(items, policy.QueryParameters{Page: -3, Size: 0}, byName)
	require.Equal(t, 0, env.Page)
	require.Equal(t, policy.DefaultPageSize, env.Size)
	require.Equal(t, 1, env.Count)
}

func TestPaginatePageBeyondEnd(t *testing.T) {
	items := []item{newItem(1, 10, "a"), newItem(2, 20, "b")}
	env := policy.Paginate(items, policy.QueryParameters{Page: 7, Size: 10}, byName)
	require.Equal(t, 2, env.TotalElements)
	require.Equal(t, 0, env.Count)
	require.Empty(t, env.Content)
}

func ids(items []item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}

	return out
}
