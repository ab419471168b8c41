// Package pagination implements the offset pagination used by every list
// endpoint: 1-based pages, a default page size of 10, and next/prev cursors
// present only when the neighbouring page exists.
package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page describes the slice bounds and neighbour links for one page of a
// result set of Total items.
type Page struct {
	Page   int
	Limit  int
	Offset int
	Total  int64
	Next   *PageRef
	Prev   *PageRef
}

// Paginate computes slice bounds for the requested page. Non-positive page
// or limit fall back to the defaults. An out-of-range page yields an empty
// window (Offset past the end), never an error.
func Paginate(total int64, page, limit int) Page {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	p := Page{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Total:  total,
	}

	if int64(page)*int64(limit) < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Bounds clips the window to a slice of length n and returns [start, end)
// indexes. Useful for paginating in-memory collections.
func (p Page) Bounds(n int) (int, int) {
	start := p.Offset
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}
