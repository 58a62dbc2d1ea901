package wp

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is a declarative builder for WordPress collection query strings.
// The zero value is usable. Encoding is deterministic (keys sorted), so an
// encoded query doubles as a cache key component.
type Query struct {
	values url.Values
}

// NewQuery returns an empty query.
func NewQuery() Query {
	return Query{values: url.Values{}}
}

func (q Query) set(key, value string) Query {
	if q.values == nil {
		q.values = url.Values{}
	}
	q.values.Set(key, value)
	return q
}

// Page sets the 1-based collection page.
func (q Query) Page(n int) Query {
	if n < 1 {
		n = 1
	}
	return q.set("page", strconv.Itoa(n))
}

// PerPage sets the page size (WordPress caps this at 100).
func (q Query) PerPage(n int) Query {
	if n < 1 {
		n = 1
	}
	if n > 100 {
		n = 100
	}
	return q.set("per_page", strconv.Itoa(n))
}

// Search sets a full-text search term.
func (q Query) Search(term string) Query {
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	return q.set("search", term)
}

// Slug filters the collection to an exact slug.
func (q Query) Slug(slug string) Query {
	return q.set("slug", slug)
}

// Categories filters by category term IDs.
func (q Query) Categories(ids ...int) Query {
	return q.setIDs("categories", ids)
}

// Tags filters by tag term IDs.
func (q Query) Tags(ids ...int) Query {
	return q.setIDs("tags", ids)
}

// Taxonomy filters by an arbitrary taxonomy's term IDs, using the taxonomy's
// REST query var (e.g. "project_type").
func (q Query) Taxonomy(queryVar string, ids ...int) Query {
	return q.setIDs(queryVar, ids)
}

func (q Query) setIDs(key string, ids []int) Query {
	if len(ids) == 0 {
		return q
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return q.set(key, strings.Join(parts, ","))
}

// OrderBy sets the sort field (date, title, slug, menu_order, …).
func (q Query) OrderBy(field string) Query {
	return q.set("orderby", field)
}

// Order sets the sort direction: "asc" or "desc".
func (q Query) Order(dir string) Query {
	return q.set("order", dir)
}

// Status filters by publication status.
func (q Query) Status(status string) Query {
	return q.set("status", status)
}

// Embed requests expansion of linked resources (featured media, terms).
func (q Query) Embed() Query {
	return q.set("_embed", "1")
}

// Param sets an arbitrary query parameter for endpoints this builder does not
// model (ACF to REST filters, plugin-added vars).
func (q Query) Param(key, value string) Query {
	return q.set(key, value)
}

// Encode renders the query string without a leading "?". Keys are sorted.
func (q Query) Encode() string {
	if q.values == nil {
		return ""
	}
	return q.values.Encode()
}

// IsZero reports whether no parameters are set.
func (q Query) IsZero() bool {
	return len(q.values) == 0
}
