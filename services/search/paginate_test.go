package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePositiveInt_Defaults(t *testing.T) {
	assert.Equal(t, 6, ParsePositiveInt("", 6, 50))
	assert.Equal(t, 6, ParsePositiveInt("abc", 6, 50))
	assert.Equal(t, 6, ParsePositiveInt("0", 6, 50))
	assert.Equal(t, 6, ParsePositiveInt("-3", 6, 50))
	assert.Equal(t, 6, ParsePositiveInt("2.5", 6, 50))
}

func TestParsePositiveInt_Values(t *testing.T) {
	assert.Equal(t, 3, ParsePositiveInt("3", 6, 50))
	assert.Equal(t, 12, ParsePositiveInt(" 12 ", 6, 50))
	assert.Equal(t, 50, ParsePositiveInt("500", 6, 50))
	// maxValue <= 0 means unbounded
	assert.Equal(t, 500, ParsePositiveInt("500", 1, 0))
}

func TestResolve_FirstPage(t *testing.T) {
	p := Resolve(1, 6, 14)

	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(14), p.TotalItems)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrevious)
}

func TestResolve_MiddlePage(t *testing.T) {
	p := Resolve(2, 6, 14)

	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 6, p.Offset)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)
}

func TestResolve_PastEndClampsToLastPage(t *testing.T) {
	p := Resolve(99, 6, 14)

	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 12, p.Offset)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrevious)
}

func TestResolve_EmptyResultStillHasOnePage(t *testing.T) {
	p := Resolve(1, 6, 0)

	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.Offset)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrevious)
}

func TestResolve_ZeroPageSize(t *testing.T) {
	p := Resolve(1, 0, 10)

	assert.Equal(t, 1, p.Size)
	assert.Equal(t, 10, p.TotalPages)
}

func TestPageMeta_EchoesTrimmedQuery(t *testing.T) {
	p := Resolve(2, 6, 14)
	meta := p.Meta("  arena  ")

	assert.Equal(t, "arena", meta["query"])
	assert.Equal(t, 2, meta["page"])
	assert.Equal(t, 6, meta["page_size"])
	assert.Equal(t, 3, meta["total_pages"])
	assert.Equal(t, int64(14), meta["total_items"])
	assert.Equal(t, true, meta["has_next"])
	assert.Equal(t, true, meta["has_previous"])
}
