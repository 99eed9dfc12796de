package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginate_CountersAndBounds(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 2, 2)
	require.Equal(t, []int{3, 4}, p.Items)
	require.Equal(t, 5, p.Total)
	require.Equal(t, 3, p.TotalPages)
	require.True(t, p.HasNextPage)
	require.True(t, p.HasPrevPage)

	p = Paginate(items, 3, 2)
	require.Equal(t, []int{5}, p.Items)
	require.False(t, p.HasNextPage)

	p = Paginate(items, 0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultPageLimit, p.Limit)
	require.Len(t, p.Items, 5)

	p = Paginate(items, 1, MaxPageLimit+1)
	require.Equal(t, MaxPageLimit, p.Limit)
}

func TestPaginate_PagePastEndIsEmpty(t *testing.T) {
	for _, page := range []int{4, 1e17, math.MaxInt} {
		p := Paginate([]int{1, 2, 3}, page, 100)
		require.Empty(t, p.Items, page)
		require.Equal(t, 3, p.Total)
		require.Equal(t, 1, p.TotalPages)
		require.False(t, p.HasNextPage)
	}

	p := Paginate([]int{}, 1, 10)
	require.Empty(t, p.Items)
	require.Zero(t, p.TotalPages)
}
