package http

import (
	"fmt"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

// PageBody is the paged envelope returned by the catalog and search endpoints.
type PageBody[T any] struct {
	Content       *[]T  `json:"content"`
	Last          *bool `json:"last"`
	Number        int   `json:"number"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

func (p PageBody[T]) Validate() error {
	if p.Content == nil {
		return fmt.Errorf("%w: page is missing content", inErrors.ErrUnexpectedShape)
	}
	if p.Last == nil {
		return fmt.Errorf("%w: page is missing last", inErrors.ErrUnexpectedShape)
	}
	return nil
}

func (p PageBody[T]) Items() []T {
	if p.Content == nil {
		return []T{}
	}
	return *p.Content
}

func (p PageBody[T]) IsLast() bool {
	return p.Last != nil && *p.Last
}
