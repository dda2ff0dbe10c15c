// Package pagination computes the page links shown under admin lists.
package pagination

const maxVisiblePages = 5

// Link is one numbered page link. Gap marks an ellipsis placed before it.
type Link struct {
	Page    int
	Current bool
	Gap     bool
}

// Pager is the rendered state of a page bar
type Pager struct {
	Current    int
	TotalPages int
	Links      []Link
	HasPrev    bool
	HasNext    bool
}

// Visible is false when there is a single page or none
func (p Pager) Visible() bool {
	return p.TotalPages > 1
}

func (p Pager) PrevPage() int { return p.Current - 1 }
func (p Pager) NextPage() int { return p.Current + 1 }

// TotalPages returns how many pages of size pageSize hold count items
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// New builds a pager with a window of five pages centred on current,
// plus links to the first and last page when they fall outside it.
// current is clamped into range.
func New(current, totalPages int) Pager {
	if totalPages < 0 {
		totalPages = 0
	}
	current = clamp(current, 1, max(totalPages, 1))

	p := Pager{
		Current:    current,
		TotalPages: totalPages,
		HasPrev:    current > 1,
		HasNext:    current < totalPages,
	}
	if totalPages <= 1 {
		return p
	}

	start := max(1, current-maxVisiblePages/2)
	end := min(totalPages, start+maxVisiblePages-1)
	if end-start+1 < maxVisiblePages {
		start = max(1, end-maxVisiblePages+1)
	}

	if start > 1 {
		p.Links = append(p.Links, Link{Page: 1})
	}
	for page := start; page <= end; page++ {
		p.Links = append(p.Links, Link{
			Page:    page,
			Current: page == current,
			Gap:     page == start && start > 2,
		})
	}
	if end < totalPages {
		p.Links = append(p.Links, Link{Page: totalPages, Gap: end < totalPages-1})
	}
	return p
}

// Slice returns the items of page (1-based) out of all
func Slice[T any](all []T, page, pageSize int) []T {
	if pageSize <= 0 || page < 1 {
		return nil
	}
	from := (page - 1) * pageSize
	if from >= len(all) {
		return nil
	}
	return all[from:min(len(all), from+pageSize)]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
