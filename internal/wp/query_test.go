package wp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryEncodeDeterministic(t *testing.T) {
	a := NewQuery().Search("go").Page(2).PerPage(10).Embed()
	b := NewQuery().Embed().PerPage(10).Page(2).Search("go")
	assert.Equal(t, a.Encode(), b.Encode(), "parameter order must not affect encoding")
}

func TestQueryEncode(t *testing.T) {
	q := NewQuery().Page(3).PerPage(10).Search("hello world").Categories(4, 7)
	assert.Equal(t, "categories=4%2C7&page=3&per_page=10&search=hello+world", q.Encode())
}

func TestQueryZeroValueUsable(t *testing.T) {
	var q Query
	assert.True(t, q.IsZero())
	assert.Equal(t, "", q.Encode())

	q = q.Slug("about")
	assert.Equal(t, "slug=about", q.Encode())
}

func TestQueryClamping(t *testing.T) {
	assert.Equal(t, "page=1", NewQuery().Page(0).Encode())
	assert.Equal(t, "page=1", NewQuery().Page(-4).Encode())
	assert.Equal(t, "per_page=100", NewQuery().PerPage(500).Encode())
	assert.Equal(t, "per_page=1", NewQuery().PerPage(0).Encode())
}

func TestQuerySearchTrimsAndSkipsEmpty(t *testing.T) {
	assert.Equal(t, "", NewQuery().Search("   ").Encode())
	assert.Equal(t, "search=go", NewQuery().Search(" go ").Encode())
}

func TestQueryTaxonomyAndParam(t *testing.T) {
	q := NewQuery().Taxonomy("project_type", 3).Param("acf_format", "standard")
	assert.Equal(t, "acf_format=standard&project_type=3", q.Encode())
}

func TestQueryEmptyIDListIgnored(t *testing.T) {
	assert.Equal(t, "", NewQuery().Categories().Encode())
	assert.Equal(t, "", NewQuery().Tags().Encode())
}

func TestQueryOrdering(t *testing.T) {
	q := NewQuery().OrderBy("title").Order("asc").Status("publish")
	assert.Equal(t, "order=asc&orderby=title&status=publish", q.Encode())
}
