package main

import (
	"fmt"
	"iter"
)

const defaultPageSize = 20

// Page is one slice of a paginated sequence. More reports whether another
// page follows.
type Page[T any] struct {
	Number int
	Items  []T
	More   bool
}

type Pager[T any] struct {
	items []T
	size  int
}

// Paginate prepares items for paging in chunks of size. It does not copy or
// modify items.
func Paginate[T any](items []T, size int) (Pager[T], error) {
	if size <= 0 {
		return Pager[T]{}, &ConfigurationError{
			Setting: "page size",
			Err:     fmt.Errorf("%w (got %d)", ErrInvalidPageSize, size),
		}
	}
	return Pager[T]{items: items, size: size}, nil
}

func (p Pager[T]) Count() int {
	if len(p.items) == 0 {
		return 0
	}
	return (len(p.items) + p.size - 1) / p.size
}

func (p Pager[T]) Size() int { return p.size }

func (p Pager[T]) Total() int { return len(p.items) }

// Pages yields the pages in order. Each range over the result starts again
// from the first page; stopping the range early cancels paging.
func (p Pager[T]) Pages() iter.Seq[Page[T]] {
	return func(yield func(Page[T]) bool) {
		number := 0
		for start := 0; start < len(p.items); start += p.size {
			end := min(start+p.size, len(p.items))
			number++
			page := Page[T]{
				Number: number,
				Items:  p.items[start:end:end],
				More:   end < len(p.items),
			}
			if !yield(page) {
				return
			}
		}
	}
}
