package acf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nordvang/presskit/internal/htmltext"
)

// Field is one named custom field rendered to a fragment.
type Field struct {
	Name  string // raw ACF field name
	Label string // prettified for display
	HTML  template.HTML
}

// Renderer turns ACF values into HTML fragments.
type Renderer struct {
	md     goldmark.Markdown
	titler cases.Caser
}

// NewRenderer creates a renderer with a default goldmark engine.
func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(),
		titler: cases.Title(language.English),
	}
}

// Fields renders every non-empty field of an ACF object, sorted by field name
// for deterministic output. Internal fields (leading underscore) are skipped.
func (r *Renderer) Fields(acf map[string]any) []Field {
	if len(acf) == 0 {
		return nil
	}
	names := make([]string, 0, len(acf))
	for name := range acf {
		if strings.HasPrefix(name, "_") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fragment := r.Value(acf[name])
		if fragment == "" {
			continue
		}
		fields = append(fields, Field{Name: name, Label: r.label(name), HTML: fragment})
	}
	return fields
}

// label prettifies a field name: "hero_image" -> "Hero Image".
func (r *Renderer) label(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return r.titler.String(name)
}

// Value renders a single field value by classified kind. Unknown shapes fall
// back to escaped text; the result is empty for empty values.
func (r *Renderer) Value(v any) template.HTML {
	switch Classify(v) {
	case KindEmpty:
		return ""
	case KindTrue:
		return `<span class="acf-bool">Yes</span>`
	case KindNumber:
		return template.HTML(template.HTMLEscapeString(formatNumber(v)))
	case KindText:
		s, ok := v.(string)
		if !ok {
			// Classify falls back to text for Go types JSON decoding never
			// produces; print them rather than panic.
			s = fmt.Sprint(v)
		}
		return template.HTML(template.HTMLEscapeString(strings.TrimSpace(s)))
	case KindURL:
		return r.renderURL(v.(string))
	case KindHTML:
		return template.HTML(htmltext.Sanitize(v.(string)))
	case KindMarkdown:
		return r.renderMarkdown(v.(string))
	case KindImage:
		return r.renderImage(v.(map[string]any))
	case KindRelation:
		return r.renderRelation(v)
	case KindRelationIDs:
		return r.renderRelationIDs(v.([]any))
	case KindRepeater:
		return r.renderRepeater(v.([]any))
	case KindGroup:
		return r.renderGroup(v.(map[string]any))
	default:
		return ""
	}
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case json.Number:
		return n.String()
	default:
		return fmt.Sprint(v)
	}
}

func (r *Renderer) renderURL(url string) template.HTML {
	esc := template.HTMLEscapeString(url)
	return template.HTML(fmt.Sprintf(`<a href="%s" rel="noopener">%s</a>`, esc, esc))
}

func (r *Renderer) renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		slog.Debug("markdown conversion failed, falling back to text", "error", err)
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(htmltext.Sanitize(buf.String()))
}

func (r *Renderer) renderImage(m map[string]any) template.HTML {
	url, _ := m["url"].(string)
	alt, _ := m["alt"].(string)
	var b strings.Builder
	b.WriteString(`<figure class="acf-image"><img src="`)
	b.WriteString(template.HTMLEscapeString(url))
	b.WriteString(`" alt="`)
	b.WriteString(template.HTMLEscapeString(alt))
	b.WriteString(`" loading="lazy">`)
	if caption, _ := m["caption"].(string); caption != "" {
		b.WriteString(`<figcaption>`)
		b.WriteString(template.HTMLEscapeString(caption))
		b.WriteString(`</figcaption>`)
	}
	b.WriteString(`</figure>`)
	return template.HTML(b.String())
}

// renderRelation handles a single serialized post object or a list of them.
func (r *Renderer) renderRelation(v any) template.HTML {
	switch rel := v.(type) {
	case map[string]any:
		return r.renderRelationOne(rel)
	case []any:
		var b strings.Builder
		b.WriteString(`<ul class="acf-relation">`)
		for _, item := range rel {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			b.WriteString(`<li>`)
			b.WriteString(string(r.renderRelationOne(m)))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
		return template.HTML(b.String())
	default:
		return ""
	}
}

func (r *Renderer) renderRelationOne(m map[string]any) template.HTML {
	title, _ := m["post_title"].(string)
	if title == "" {
		return ""
	}
	esc := template.HTMLEscapeString(title)
	// Serialized WP_Post objects carry no permalink; link only when one of the
	// optional URL keys is present.
	for _, key := range []string{"permalink", "link", "url"} {
		if href, _ := m[key].(string); href != "" {
			return template.HTML(fmt.Sprintf(`<a href="%s">%s</a>`, template.HTMLEscapeString(href), esc))
		}
	}
	return template.HTML(esc)
}

func (r *Renderer) renderRelationIDs(ids []any) template.HTML {
	var parts []string
	for _, id := range ids {
		parts = append(parts, "#"+formatNumber(id))
	}
	return template.HTML(template.HTMLEscapeString(strings.Join(parts, ", ")))
}

func (r *Renderer) renderRepeater(rows []any) template.HTML {
	var b strings.Builder
	b.WriteString(`<ul class="acf-repeater">`)
	for _, row := range rows {
		b.WriteString(`<li>`)
		if m, ok := row.(map[string]any); ok {
			b.WriteString(string(r.renderGroup(m)))
		} else {
			b.WriteString(string(r.Value(row)))
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
	return template.HTML(b.String())
}

func (r *Renderer) renderGroup(m map[string]any) template.HTML {
	fields := r.Fields(m)
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<dl class="acf-group">`)
	for _, f := range fields {
		b.WriteString(`<dt>`)
		b.WriteString(template.HTMLEscapeString(f.Label))
		b.WriteString(`</dt><dd>`)
		b.WriteString(string(f.HTML))
		b.WriteString(`</dd>`)
	}
	b.WriteString(`</dl>`)
	return template.HTML(b.String())
}
