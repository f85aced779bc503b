package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationComputesTotalPages(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPaginationClampsInputs(t *testing.T) {
	p := NewPagination(0, 0, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)

	p = NewPagination(1, 500, 10)
	assert.Equal(t, MaxPerPage, p.PerPage)
}

func TestPageFromQuery(t *testing.T) {
	page, perPage := PageFromQuery(url.Values{"page": {"3"}, "per_page": {"50"}})
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, perPage)

	page, perPage = PageFromQuery(url.Values{"page": {"junk"}, "per_page": {"-2"}})
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, perPage)

	_, perPage = PageFromQuery(url.Values{"per_page": {"9999"}})
	assert.Equal(t, MaxPerPage, perPage)
}
