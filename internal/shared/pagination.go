package shared

// Pagination describes one page of a listing fetched with the limit+1 trick:
// the query asks for one row more than the page size and the extra row only
// signals that a next page exists.
type Pagination struct {
	Page    int
	PerPage int
	HasNext bool
}

// NewPagination computes page metadata from the number of fetched rows.
func NewPagination(page, perPage, fetched int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	return Pagination{Page: page, PerPage: perPage, HasNext: fetched > perPage}
}

// Offset returns the query offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
