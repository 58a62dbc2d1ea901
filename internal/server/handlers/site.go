package handlers

import (
	"context"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nordvang/presskit/internal/acf"
	"github.com/nordvang/presskit/internal/htmltext"
	"github.com/nordvang/presskit/internal/loader"
	"github.com/nordvang/presskit/internal/logfields"
	"github.com/nordvang/presskit/internal/metrics"
	"github.com/nordvang/presskit/internal/views"
	"github.com/nordvang/presskit/internal/wp"
)

const excerptWords = 40

//go:embed static/site.css
var siteCSS []byte

// SiteHandlers renders the public pages.
type SiteHandlers struct {
	runtime  Runtime
	views    *views.Views
	acf      *acf.Renderer
	recorder metrics.Recorder
}

// NewSiteHandlers creates the site handler module. A nil recorder disables
// handler metrics.
func NewSiteHandlers(runtime Runtime, v *views.Views, recorder metrics.Recorder) *SiteHandlers {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &SiteHandlers{
		runtime:  runtime,
		views:    v,
		acf:      acf.NewRenderer(),
		recorder: recorder,
	}
}

// Home renders the front page: optional intro content plus the newest posts.
func (h *SiteHandlers) Home(w http.ResponseWriter, r *http.Request) {
	defer h.observe("home", time.Now())
	cfg := h.runtime.Config()

	q := HomeQuery(cfg.WordPress.PerPage)
	list, src, err := loader.Load(r.Context(), h.runtime.Loader(), ListKey("posts", q),
		func(ctx context.Context) (*wp.PostList, error) {
			return h.runtime.Client().ListPosts(ctx, q)
		})
	if err != nil {
		h.renderFetchError(w, r, err)
		return
	}
	setCacheHeader(w, src)

	content := views.HomeData{More: "/posts"}
	for i := range list.Posts {
		content.Recent = append(content.Recent, h.card(&list.Posts[i], "/posts"))
	}
	if intro := h.frontPageIntro(r.Context()); intro != "" {
		content.Intro = template.HTML(intro)
	}
	h.render(w, r, http.StatusOK, "home", "", content)
}

// frontPageIntro fetches the "home" page content. A missing page is normal;
// other failures degrade to an intro-less front page.
func (h *SiteHandlers) frontPageIntro(ctx context.Context) string {
	page, _, err := loader.Load(ctx, h.runtime.Loader(), PageKey(FrontPageSlug),
		func(ctx context.Context) (*wp.Post, error) {
			return h.runtime.Client().GetPageBySlug(ctx, FrontPageSlug)
		})
	if err != nil {
		if !wp.IsNotFound(err) {
			slog.Warn("front page content unavailable", logfields.Error(err))
		}
		return ""
	}
	return htmltext.Sanitize(page.Content.Rendered)
}

// PostsArchive renders /posts with optional page, search and category filters.
func (h *SiteHandlers) PostsArchive(w http.ResponseWriter, r *http.Request) {
	defer h.observe("posts_archive", time.Now())
	cfg := h.runtime.Config()
	page := queryPage(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	catSlug := strings.TrimSpace(r.URL.Query().Get("category"))

	q := ArchiveQuery(page, cfg.WordPress.PerPage)
	if search != "" {
		q = q.Search(search)
	}
	var intro string
	if catSlug != "" {
		term, err := h.termBySlug(r.Context(), "categories", catSlug)
		if err != nil {
			h.renderFetchError(w, r, err)
			return
		}
		q = q.Categories(term.ID)
		intro = "Category: " + term.Name
	}

	extra := url.Values{}
	if search != "" {
		extra.Set("search", search)
	}
	if catSlug != "" {
		extra.Set("category", catSlug)
	}

	h.archive(w, r, archiveOptions{
		key: ListKey("posts", q),
		fetch: func(ctx context.Context) (*wp.PostList, error) {
			return h.runtime.Client().ListPosts(ctx, q)
		},
		heading:  "Blog",
		intro:    intro,
		basePath: "/posts",
		cardBase: "/posts",
		search:   search,
		empty:    emptyMessage(search),
		page:     page,
		pageURL:  func(n int) string { return pageURL("/posts", n, extra) },
	})
}

// PostSingle renders /posts/{slug}.
func (h *SiteHandlers) PostSingle(w http.ResponseWriter, r *http.Request) {
	defer h.observe("post_single", time.Now())
	slug := r.PathValue("slug")

	post, src, err := loader.Load(r.Context(), h.runtime.Loader(), PostKey(slug),
		func(ctx context.Context) (*wp.Post, error) {
			return h.runtime.Client().GetPostBySlug(ctx, slug)
		})
	if err != nil {
		h.renderFetchError(w, r, err)
		return
	}
	setCacheHeader(w, src)
	h.renderSingle(w, r, "single", post, true)
}

// Page renders /pages/{slug}.
func (h *SiteHandlers) Page(w http.ResponseWriter, r *http.Request) {
	defer h.observe("page", time.Now())
	slug := r.PathValue("slug")

	page, src, err := loader.Load(r.Context(), h.runtime.Loader(), PageKey(slug),
		func(ctx context.Context) (*wp.Post, error) {
			return h.runtime.Client().GetPageBySlug(ctx, slug)
		})
	if err != nil {
		h.renderFetchError(w, r, err)
		return
	}
	setCacheHeader(w, src)
	h.renderSingle(w, r, "page", page, false)
}

// TypeArchive renders /{cpt} for configured custom post types. Unconfigured
// segments fall through to the not-found page.
func (h *SiteHandlers) TypeArchive(w http.ResponseWriter, r *http.Request) {
	defer h.observe("type_archive", time.Now())
	cfg := h.runtime.Config()
	pt, ok := cfg.PostTypeBySlug(r.PathValue("cpt"))
	if !ok {
		h.NotFound(w, r)
		return
	}
	page := queryPage(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	q := ArchiveQuery(page, cfg.WordPress.PerPage)
	if search != "" {
		q = q.Search(search)
	}
	extra := url.Values{}
	if search != "" {
		extra.Set("search", search)
	}
	base := "/" + pt.Slug

	h.archive(w, r, archiveOptions{
		key: ListKey(pt.RestBase, q),
		fetch: func(ctx context.Context) (*wp.PostList, error) {
			return h.runtime.Client().ListByType(ctx, pt.RestBase, q)
		},
		heading:  pt.Label,
		basePath: base,
		cardBase: base,
		search:   search,
		empty:    emptyMessage(search),
		page:     page,
		pageURL:  func(n int) string { return pageURL(base, n, extra) },
	})
}

// TypeSingle renders /{cpt}/{slug}.
func (h *SiteHandlers) TypeSingle(w http.ResponseWriter, r *http.Request) {
	defer h.observe("type_single", time.Now())
	cfg := h.runtime.Config()
	pt, ok := cfg.PostTypeBySlug(r.PathValue("cpt"))
	if !ok {
		h.NotFound(w, r)
		return
	}
	slug := r.PathValue("slug")

	post, src, err := loader.Load(r.Context(), h.runtime.Loader(), TypeSlugKey(pt.RestBase, slug),
		func(ctx context.Context) (*wp.Post, error) {
			return h.runtime.Client().GetByTypeAndSlug(ctx, pt.RestBase, slug)
		})
	if err != nil {
		h.renderFetchError(w, r, err)
		return
	}
	setCacheHeader(w, src)
	h.renderSingle(w, r, "single", post, true)
}

// CategoryArchive renders /category/{slug}.
func (h *SiteHandlers) CategoryArchive(w http.ResponseWriter, r *http.Request) {
	h.termArchive(w, r, "categories", "/category")
}

// TagArchive renders /tag/{slug}.
func (h *SiteHandlers) TagArchive(w http.ResponseWriter, r *http.Request) {
	h.termArchive(w, r, "tags", "/tag")
}

func (h *SiteHandlers) termArchive(w http.ResponseWriter, r *http.Request, taxonomy, basePath string) {
	defer h.observe("term_archive", time.Now())
	cfg := h.runtime.Config()
	slug := r.PathValue("slug")
	page := queryPage(r)

	term, err := h.termBySlug(r.Context(), taxonomy, slug)
	if err != nil {
		h.renderFetchError(w, r, err)
		return
	}

	q := ArchiveQuery(page, cfg.WordPress.PerPage)
	if taxonomy == "categories" {
		q = q.Categories(term.ID)
	} else {
		q = q.Tags(term.ID)
	}
	self := basePath + "/" + slug

	h.archive(w, r, archiveOptions{
		key: ListKey("posts", q),
		fetch: func(ctx context.Context) (*wp.PostList, error) {
			return h.runtime.Client().ListPosts(ctx, q)
		},
		heading:  term.Name,
		intro:    htmltext.Text(term.Description),
		basePath: self,
		cardBase: "/posts",
		empty:    "Nothing has been published here yet.",
		page:     page,
		pageURL:  func(n int) string { return pageURL(self, n, nil) },
	})
}

// NotFound renders the 404 page. Wired as the catch-all route.
func (h *SiteHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", "Not found",
		views.ErrorData{Message: "There is nothing at " + r.URL.Path + "."})
}

// Stylesheet serves the embedded site stylesheet.
func (h *SiteHandlers) Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(siteCSS)
}

// archiveOptions parameterizes the shared collection-page rendering.
type archiveOptions struct {
	key      string
	fetch    func(ctx context.Context) (*wp.PostList, error)
	heading  string
	intro    string
	basePath string // search form target and pagination base
	cardBase string // link prefix for card targets
	search   string
	empty    string
	page     int
	pageURL  func(page int) string
}

// archive fetches one collection page through the loader and renders it.
func (h *SiteHandlers) archive(w http.ResponseWriter, r *http.Request, opts archiveOptions) {
	list, src, err := loader.Load(r.Context(), h.runtime.Loader(), opts.key, opts.fetch)
	if err != nil {
		h.renderFetchError(w, r, err)
		return
	}
	setCacheHeader(w, src)

	content := views.ArchiveData{
		Heading:    opts.heading,
		Intro:      opts.intro,
		Search:     opts.search,
		SearchURL:  opts.basePath,
		Empty:      opts.empty,
		Pagination: views.Paginate(opts.page, list.TotalPages, opts.pageURL),
	}
	for i := range list.Posts {
		content.Cards = append(content.Cards, h.card(&list.Posts[i], opts.cardBase))
	}
	h.render(w, r, http.StatusOK, "archive", opts.heading, content)
}

// renderSingle renders a post or page detail view.
func (h *SiteHandlers) renderSingle(w http.ResponseWriter, r *http.Request, page string, post *wp.Post, showDate bool) {
	content := views.SingleData{
		Title:    post.TitleText(),
		Date:     post.Date.Time,
		ShowDate: showDate && !post.Date.IsZero(),
		Content:  template.HTML(htmltext.Sanitize(post.Content.Rendered)),
		Terms:    termChips(post.EmbeddedTerms()),
		Fields:   h.acfFields(post.ACF),
	}
	if m := post.FeaturedImage(); m != nil {
		content.Figure = &views.Figure{URL: m.BestSize("large"), Alt: m.AltText}
	}
	h.render(w, r, http.StatusOK, page, post.TitleText(), content)
}

// render executes a page template inside the layout with shared chrome.
func (h *SiteHandlers) render(w http.ResponseWriter, r *http.Request, status int, page, title string, content any) {
	cfg := h.runtime.Config()
	data := &views.PageData{
		Site:    views.Site{Title: cfg.Site.Title, Description: cfg.Site.Description},
		Title:   title,
		Nav:     views.BuildNav(cfg, r.URL.Path),
		Content: content,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.views.Render(w, page, data); err != nil {
		slog.Error("template render failed", logfields.Route(page), logfields.Error(err))
	}
}

// renderFetchError maps upstream failures onto the 404 or error page.
func (h *SiteHandlers) renderFetchError(w http.ResponseWriter, r *http.Request, err error) {
	if wp.IsNotFound(err) {
		h.NotFound(w, r)
		return
	}
	slog.Error("upstream fetch failed", logfields.Path(r.URL.Path), logfields.Error(err))
	h.render(w, r, http.StatusBadGateway, "error", "Error",
		views.ErrorData{Message: "The content backend is currently unavailable."})
}

func (h *SiteHandlers) termBySlug(ctx context.Context, taxonomy, slug string) (*wp.Term, error) {
	term, _, err := loader.Load(ctx, h.runtime.Loader(), TermKey(taxonomy, slug),
		func(ctx context.Context) (*wp.Term, error) {
			return h.runtime.Client().GetTermBySlug(ctx, taxonomy, slug)
		})
	return term, err
}

// card converts a post into its archive summary.
func (h *SiteHandlers) card(p *wp.Post, base string) views.Card {
	c := views.Card{
		Title:   p.TitleText(),
		URL:     base + "/" + p.Slug,
		Date:    p.Date.Time,
		Excerpt: htmltext.Excerpt(p.Excerpt.Rendered, excerptWords),
		Terms:   termChips(p.EmbeddedTerms()),
	}
	if m := p.FeaturedImage(); m != nil {
		c.ImageURL = m.BestSize("medium_large")
		c.ImageAlt = m.AltText
	}
	return c
}

func (h *SiteHandlers) acfFields(m map[string]any) []views.ACFField {
	var out []views.ACFField
	for _, f := range h.acf.Fields(m) {
		out = append(out, views.ACFField{Label: f.Label, HTML: f.HTML})
	}
	return out
}

func (h *SiteHandlers) observe(route string, start time.Time) {
	h.recorder.ObserveHandlerDuration(route, time.Since(start))
}

// termChips links category and tag terms to their archives. Terms from other
// taxonomies have no route and are skipped.
func termChips(terms []wp.Term) []views.Chip {
	var chips []views.Chip
	for _, t := range terms {
		switch t.Taxonomy {
		case "category":
			chips = append(chips, views.Chip{Label: t.Name, URL: "/category/" + t.Slug})
		case "post_tag":
			chips = append(chips, views.Chip{Label: t.Name, URL: "/tag/" + t.Slug})
		}
	}
	return chips
}

// setCacheHeader exposes where the response content came from.
func setCacheHeader(w http.ResponseWriter, src loader.Source) {
	switch src {
	case loader.SourceCacheFresh:
		w.Header().Set("X-Cache", "hit")
	case loader.SourceCacheStale:
		w.Header().Set("X-Cache", "stale")
	default:
		w.Header().Set("X-Cache", "miss")
	}
}

func queryPage(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pageURL builds a pagination target, keeping active filters and omitting
// page=1 so the first page has a canonical URL.
func pageURL(base string, page int, extra url.Values) string {
	v := url.Values{}
	for key, vals := range extra {
		for _, val := range vals {
			v.Add(key, val)
		}
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}

func emptyMessage(search string) string {
	if search != "" {
		return "No results for “" + search + "”."
	}
	return "Nothing has been published here yet."
}
