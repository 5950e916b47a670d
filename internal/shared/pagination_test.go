package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 45)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 0, p.Offset())
}

func TestPaginationOffset(t *testing.T) {
	require.Equal(t, 0, NewPagination(1, 10, 100).Offset())
	require.Equal(t, 30, NewPagination(4, 10, 100).Offset())
	// Bogus page numbers clamp to the first page instead of a negative offset.
	require.Equal(t, 0, NewPagination(-2, 10, 100).Offset())
}
