// Package views renders site pages from embedded html/template files.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// partials are parsed into every page's template set.
var partials = []string{
	"templates/layout.tmpl",
	"templates/nav.tmpl",
	"templates/card.tmpl",
	"templates/pagination.tmpl",
	"templates/terms.tmpl",
	"templates/media.tmpl",
	"templates/acf.tmpl",
}

// pages each define a "content" block rendered inside the layout.
var pages = []string{
	"home", "archive", "single", "page", "notfound", "error",
}

// Views holds one parsed template set per page.
type Views struct {
	sets map[string]*template.Template
}

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
}

// New parses all embedded templates. Parse errors are programmer errors and
// surface at startup.
func New() (*Views, error) {
	v := &Views{sets: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		files := append(append([]string{}, partials...), "templates/"+page+".tmpl")
		set, err := template.New("layout.tmpl").Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing %s templates: %w", page, err)
		}
		v.sets[page] = set
	}
	return v, nil
}

// Render executes the named page into w.
func (v *Views) Render(w io.Writer, page string, data *PageData) error {
	set, ok := v.sets[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	return set.ExecuteTemplate(w, "layout.tmpl", data)
}

// PageData is the root template context for every page.
type PageData struct {
	Site    Site
	Title   string // page title; composed with the site title in <head>
	Nav     []NavItem
	Content any // page-specific payload
}

// Site is rendered in the layout chrome.
type Site struct {
	Title       string
	Description string
}

// NavItem is one navigation link.
type NavItem struct {
	Label  string
	URL    string
	Active bool
}

// Card is a post summary for archive grids.
type Card struct {
	Title    string
	URL      string
	Date     time.Time
	Excerpt  string
	ImageURL string
	ImageAlt string
	Terms    []Chip
}

// Chip is a small taxonomy-term link.
type Chip struct {
	Label string
	URL   string
}

// Figure is a featured image.
type Figure struct {
	URL     string
	Alt     string
	Caption string
}

// ACFField is one rendered custom field.
type ACFField struct {
	Label string
	HTML  template.HTML
}

// ArchiveData is the content payload for list pages.
type ArchiveData struct {
	Heading    string
	Intro      string
	Search     string // active search term, if any
	SearchURL  string // form action for the search box; empty hides the box
	Cards      []Card
	Pagination Pagination
	Empty      string // message when Cards is empty
}

// SingleData is the content payload for post/page detail views.
type SingleData struct {
	Title    string
	Date     time.Time
	ShowDate bool
	Figure   *Figure
	Content  template.HTML
	Terms    []Chip
	Fields   []ACFField
}

// HomeData is the content payload for the front page.
type HomeData struct {
	Intro  template.HTML
	Recent []Card
	More   string // URL to the posts archive
}

// ErrorData is the payload for error/notfound pages.
type ErrorData struct {
	Message string
}
