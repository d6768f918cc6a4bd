// Package orm holds query helpers shared by the repositories.
package orm

import (
	"gorm.io/gorm"
)

const (
	// DefaultPerPage is the page size used when the client does not ask
	// for one.
	DefaultPerPage = 15

	// MaxPerPage caps the page size a client may request.
	MaxPerPage = 100
)

// Pagination is the metadata block returned next to every paginated
// collection. From/To are 1-based indexes of the first and last item on
// the current page; both are 0 when the page is empty.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// ClampPerPage forces a requested page size into [1, MaxPerPage].
// A zero request means "not specified" and yields DefaultPerPage.
func ClampPerPage(perPage int) int {
	if perPage == 0 {
		return DefaultPerPage
	}
	if perPage < 1 {
		return 1
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// Paginate counts q, then loads one page into dest. q must already carry
// the model, conditions and ordering; Paginate only appends the count,
// offset and limit.
func Paginate(q *gorm.DB, page, perPage int, dest interface{}) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	perPage = ClampPerPage(perPage)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * perPage
	res := q.Session(&gorm.Session{}).Offset(offset).Limit(perPage).Find(dest)
	if res.Error != nil {
		return Pagination{}, res.Error
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	p := Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
	if res.RowsAffected > 0 {
		p.From = offset + 1
		p.To = offset + int(res.RowsAffected)
	}
	return p, nil
}
