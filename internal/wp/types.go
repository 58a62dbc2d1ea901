package wp

import (
	"encoding/json"
	"strings"
	"time"
)

// Rendered wraps WordPress "rendered" text objects: {"rendered": "<p>…</p>"}.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Time parses WordPress timestamps, which omit the timezone suffix
// ("2024-05-01T09:30:00"). Site-local time is assumed.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	// Leave zero rather than failing the whole document on a malformed date.
	t.Time = time.Time{}
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format("2006-01-02T15:04:05"))
}

// Post is a WordPress content entity. Posts, pages and custom post types all
// share this REST shape; Type distinguishes them.
type Post struct {
	ID            int            `json:"id"`
	Date          Time           `json:"date"`
	Modified      Time           `json:"modified"`
	Slug          string         `json:"slug"`
	Status        string         `json:"status"`
	Type          string         `json:"type"`
	Link          string         `json:"link"`
	Title         Rendered       `json:"title"`
	Content       Rendered       `json:"content"`
	Excerpt       Rendered       `json:"excerpt"`
	FeaturedMedia int            `json:"featured_media"`
	Categories    []int          `json:"categories,omitempty"`
	Tags          []int          `json:"tags,omitempty"`
	ACF           map[string]any `json:"acf,omitempty"`
	Embedded      *Embedded      `json:"_embedded,omitempty"`
}

// Embedded holds resources expanded by the _embed query parameter.
type Embedded struct {
	FeaturedMedia []Media  `json:"wp:featuredmedia,omitempty"`
	Terms         [][]Term `json:"wp:term,omitempty"`
}

// FeaturedImage returns the embedded featured media, if any.
func (p *Post) FeaturedImage() *Media {
	if p.Embedded == nil || len(p.Embedded.FeaturedMedia) == 0 {
		return nil
	}
	m := p.Embedded.FeaturedMedia[0]
	if m.SourceURL == "" {
		return nil
	}
	return &m
}

// EmbeddedTerms flattens the embedded wp:term groups (one group per taxonomy)
// into a single list, preserving order.
func (p *Post) EmbeddedTerms() []Term {
	if p.Embedded == nil {
		return nil
	}
	var out []Term
	for _, group := range p.Embedded.Terms {
		out = append(out, group...)
	}
	return out
}

// Media is a WordPress attachment.
type Media struct {
	ID           int          `json:"id"`
	SourceURL    string       `json:"source_url"`
	AltText      string       `json:"alt_text"`
	MimeType     string       `json:"mime_type"`
	Title        Rendered     `json:"title"`
	MediaDetails MediaDetails `json:"media_details"`
}

// MediaDetails carries intrinsic dimensions and generated sizes.
type MediaDetails struct {
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
	Sizes  map[string]MediaSize `json:"sizes,omitempty"`
}

// MediaSize is one generated rendition of an attachment.
type MediaSize struct {
	SourceURL string `json:"source_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// BestSize returns the URL of the named size, falling back to the original.
func (m *Media) BestSize(name string) string {
	if s, ok := m.MediaDetails.Sizes[name]; ok && s.SourceURL != "" {
		return s.SourceURL
	}
	return m.SourceURL
}

// Term is a taxonomy term (category, tag, or custom taxonomy).
type Term struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count,omitempty"`
	Link        string `json:"link,omitempty"`
}

// PostList is a page of a collection response plus pagination totals taken
// from the X-WP-Total / X-WP-TotalPages headers.
type PostList struct {
	Posts      []Post
	Total      int
	TotalPages int
}

// TitleText returns the title with any markup entities left intact; templates
// escape it. Convenience for log lines and <title> tags.
func (p *Post) TitleText() string {
	return strings.TrimSpace(p.Title.Rendered)
}
