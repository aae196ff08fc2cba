package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"codearena/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVParam(t *testing.T) {
	t.Run("absent is nil", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/problems", nil)
		assert.Nil(t, csvParam(r, "problemIds"))
	})

	t.Run("present but empty is an explicit empty list", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/problems?problemIds=", nil)
		got := csvParam(r, "problemIds")
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("values split on comma", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/problems?problemIds=two-sum,fizzbuzz", nil)
		assert.Equal(t, []string{"two-sum", "fizzbuzz"}, csvParam(r, "problemIds"))
	})
}

func TestBoolParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/problems", nil)
	assert.Nil(t, boolParam(r, "isPublic"))

	r = httptest.NewRequest("GET", "/problems?isPublic=true", nil)
	v := boolParam(r, "isPublic")
	require.NotNil(t, v)
	assert.True(t, *v)

	r = httptest.NewRequest("GET", "/problems?isPublic=false", nil)
	v = boolParam(r, "isPublic")
	require.NotNil(t, v)
	assert.False(t, *v)
}

func TestTimeRangeParam(t *testing.T) {
	t.Run("absent is nil", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/submissions", nil)
		assert.Nil(t, timeRangeParam(r, "submissionTime"))
	})

	t.Run("half-open range", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/submissions?submissionTimeFrom=2026-01-01T00:00:00Z", nil)
		tr := timeRangeParam(r, "submissionTime")
		require.NotNil(t, tr)
		require.NotNil(t, tr.From)
		assert.Nil(t, tr.To)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), tr.From.UTC())
	})
}

func TestListOptions(t *testing.T) {
	t.Run("empty query gives zero options", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/problems", nil)
		lo := listOptions(r)
		assert.Nil(t, lo.StartIndex)
		assert.Nil(t, lo.ItemCount)
		assert.Empty(t, lo.Sort)
	})

	t.Run("pagination and sort directives", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/problems?startIndex=40&itemCount=20&sort=displayName:asc,creationDate:desc", nil)
		lo := listOptions(r)
		require.NotNil(t, lo.StartIndex)
		require.NotNil(t, lo.ItemCount)
		assert.EqualValues(t, 40, *lo.StartIndex)
		assert.EqualValues(t, 20, *lo.ItemCount)
		assert.Equal(t, []model.SortField{
			{Field: "displayName", Ascending: true},
			{Field: "creationDate", Ascending: false},
		}, lo.Sort)
	})

	t.Run("sort without order is ascending", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/problems?sort=username", nil)
		lo := listOptions(r)
		assert.Equal(t, []model.SortField{{Field: "username", Ascending: true}}, lo.Sort)
	})
}
