package views

import (
	"fmt"
	"testing"
)

func pageURL(n int) string { return fmt.Sprintf("/posts?page=%d", n) }

func numbers(p Pagination) []int {
	var out []int
	for _, l := range p.Pages {
		if l.Gap {
			out = append(out, 0)
		} else {
			out = append(out, l.Number)
		}
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int // 0 marks a gap
		prev    string
		next    string
	}{
		{name: "single page", current: 1, total: 1, want: nil},
		{name: "zero pages", current: 1, total: 0, want: nil},
		{name: "two pages first", current: 1, total: 2, want: []int{1, 2}, next: "/posts?page=2"},
		{name: "two pages last", current: 2, total: 2, want: []int{1, 2}, prev: "/posts?page=1"},
		{name: "middle of many", current: 10, total: 20, want: []int{1, 0, 8, 9, 10, 11, 12, 0, 20}, prev: "/posts?page=9", next: "/posts?page=11"},
		{name: "near start", current: 2, total: 10, want: []int{1, 2, 3, 4, 0, 10}, prev: "/posts?page=1", next: "/posts?page=3"},
		{name: "near end", current: 9, total: 10, want: []int{1, 0, 7, 8, 9, 10}, prev: "/posts?page=8", next: "/posts?page=10"},
		{name: "no gap when window touches edge", current: 3, total: 6, want: []int{1, 2, 3, 4, 5, 6}, prev: "/posts?page=2", next: "/posts?page=4"},
		{name: "current below range clamps", current: 0, total: 3, want: []int{1, 2, 3}, next: "/posts?page=2"},
		{name: "current above range clamps", current: 9, total: 3, want: []int{1, 2, 3}, prev: "/posts?page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.current, tt.total, pageURL)
			got := numbers(p)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("pages = %v, want %v", got, tt.want)
			}
			if p.PrevURL != tt.prev {
				t.Errorf("PrevURL = %q, want %q", p.PrevURL, tt.prev)
			}
			if p.NextURL != tt.next {
				t.Errorf("NextURL = %q, want %q", p.NextURL, tt.next)
			}
		})
	}
}

func TestPaginateMarksCurrent(t *testing.T) {
	p := Paginate(3, 5, pageURL)
	var current []int
	for _, l := range p.Pages {
		if l.Current {
			current = append(current, l.Number)
		}
	}
	if len(current) != 1 || current[0] != 3 {
		t.Fatalf("current pages = %v, want [3]", current)
	}
}
