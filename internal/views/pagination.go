package views

// Pagination is a windowed page-number control.
type Pagination struct {
	Current int
	Total   int
	Pages   []PageLink
	PrevURL string
	NextURL string
}

// PageLink is one entry in the control; Gap entries render as an ellipsis.
type PageLink struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// window is how many page numbers are shown on each side of the current page.
const window = 2

// Paginate builds a pagination control for current of total pages. makeURL
// maps a page number to its link target. Single-page collections produce an
// empty control (nothing renders).
func Paginate(current, total int, makeURL func(page int) string) Pagination {
	if total < 2 {
		return Pagination{Current: current, Total: total}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	p := Pagination{Current: current, Total: total}
	if current > 1 {
		p.PrevURL = makeURL(current - 1)
	}
	if current < total {
		p.NextURL = makeURL(current + 1)
	}

	lo, hi := current-window, current+window
	if lo < 1 {
		lo = 1
	}
	if hi > total {
		hi = total
	}

	add := func(n int) {
		p.Pages = append(p.Pages, PageLink{Number: n, URL: makeURL(n), Current: n == current})
	}
	gap := func() {
		p.Pages = append(p.Pages, PageLink{Gap: true})
	}

	if lo > 1 {
		add(1)
		if lo > 2 {
			gap()
		}
	}
	for n := lo; n <= hi; n++ {
		add(n)
	}
	if hi < total {
		if hi < total-1 {
			gap()
		}
		add(total)
	}
	return p
}
