package handlers

import (
	"github.com/nordvang/presskit/internal/loader"
	"github.com/nordvang/presskit/internal/wp"
)

// FrontPageSlug is the WordPress page rendered as the home intro, if it exists.
const FrontPageSlug = "home"

// Canonical queries and cache keys for everything the page handlers load. The
// cache warmer builds its targets with the same helpers, so a warmed entry is
// exactly the entry a request reads.

// HomeQuery is the recent-posts query behind the front page.
func HomeQuery(perPage int) wp.Query {
	return wp.NewQuery().PerPage(perPage).Embed()
}

// ArchiveQuery is one collection page as /posts and /{cpt} request it. Filters
// (search, term) are layered on top before the key is derived.
func ArchiveQuery(page, perPage int) wp.Query {
	return wp.NewQuery().Page(page).PerPage(perPage).Embed()
}

// ListKey caches one collection page of a rest base.
func ListKey(restBase string, q wp.Query) string {
	return loader.Key(restBase, q.Encode())
}

// PostKey caches a single post by slug.
func PostKey(slug string) string { return loader.Key("post", slug) }

// PageKey caches a static page by slug.
func PageKey(slug string) string { return loader.Key("page", slug) }

// TypeSlugKey caches a custom-post-type entry by slug.
func TypeSlugKey(restBase, slug string) string { return loader.Key(restBase, "slug", slug) }

// TermKey caches one taxonomy term by slug.
func TermKey(taxonomy, slug string) string { return loader.Key("term", taxonomy, slug) }
