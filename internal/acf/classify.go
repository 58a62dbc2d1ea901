// Package acf renders Advanced Custom Fields values into HTML fragments.
//
// ACF exposes an open-ended, weakly-typed JSON object per post; there is no
// schema to consult. Classification is therefore heuristic over value shapes,
// and unknown shapes degrade to plain text rather than failing the page.
package acf

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind is the detected shape of a field value.
type Kind int

const (
	KindEmpty Kind = iota
	KindImage
	KindRelation
	KindRelationIDs
	KindRepeater
	KindGroup
	KindTrue
	KindHTML
	KindURL
	KindMarkdown
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindImage:
		return "image"
	case KindRelation:
		return "relation"
	case KindRelationIDs:
		return "relation-ids"
	case KindRepeater:
		return "repeater"
	case KindGroup:
		return "group"
	case KindTrue:
		return "true"
	case KindHTML:
		return "html"
	case KindURL:
		return "url"
	case KindMarkdown:
		return "markdown"
	case KindNumber:
		return "number"
	default:
		return "text"
	}
}

var tagPattern = regexp.MustCompile(`<[a-zA-Z!/]`)

// Classify inspects a decoded JSON value and picks a rendering strategy.
func Classify(v any) Kind {
	switch val := v.(type) {
	case nil:
		return KindEmpty
	case bool:
		// ACF returns false for empty fields of several types; absent and
		// false are indistinguishable, so false renders nothing.
		if !val {
			return KindEmpty
		}
		return KindTrue
	case string:
		return classifyString(val)
	case float64, int, int64, json.Number:
		return KindNumber
	case map[string]any:
		return classifyMap(val)
	case []any:
		return classifySlice(val)
	default:
		return KindText
	}
}

func classifyString(s string) Kind {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return KindEmpty
	}
	if tagPattern.MatchString(trimmed) {
		return KindHTML
	}
	if isBareURL(trimmed) {
		return KindURL
	}
	if strings.Contains(trimmed, "\n") {
		// Multiline plain text goes through the markdown engine; ordinary
		// prose comes out as paragraphs either way.
		return KindMarkdown
	}
	return KindText
}

func isBareURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	return !strings.ContainsAny(s, " \t\n")
}

func classifyMap(m map[string]any) Kind {
	if len(m) == 0 {
		return KindEmpty
	}
	if isImageMap(m) {
		return KindImage
	}
	if isRelationMap(m) {
		return KindRelation
	}
	return KindGroup
}

// isImageMap detects the ACF image array shape: a url plus image-ish metadata.
func isImageMap(m map[string]any) bool {
	url, ok := m["url"].(string)
	if !ok || url == "" {
		return false
	}
	for _, key := range []string{"sizes", "mime_type", "alt", "width"} {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

// isRelationMap detects serialized WP_Post objects from post object /
// relationship fields.
func isRelationMap(m map[string]any) bool {
	if _, ok := m["post_title"]; !ok {
		return false
	}
	if _, ok := m["ID"]; ok {
		return true
	}
	_, ok := m["id"]
	return ok
}

func classifySlice(s []any) Kind {
	if len(s) == 0 {
		return KindEmpty
	}
	allMaps, allRelations, allNumbers := true, true, true
	for _, item := range s {
		switch v := item.(type) {
		case map[string]any:
			allNumbers = false
			if !isRelationMap(v) {
				allRelations = false
			}
		case float64, int, json.Number:
			allMaps, allRelations = false, false
		default:
			allMaps, allRelations, allNumbers = false, false, false
		}
	}
	switch {
	case allMaps && allRelations:
		return KindRelation
	case allMaps:
		return KindRepeater
	case allNumbers:
		// A relationship field without serialization returns bare post IDs.
		return KindRelationIDs
	default:
		return KindRepeater
	}
}
