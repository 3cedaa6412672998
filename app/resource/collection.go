package resource

type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewMeta(page, perPage int, total int64) Meta {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))

	return Meta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    max(lastPage, 1),
	}
}

// Item wraps a single resource.
type Item[T any] struct {
	Data T `json:"data"`
}

// Collection wraps one page of resources.
type Collection[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}
