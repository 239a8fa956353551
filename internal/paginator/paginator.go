// Package paginator режет упорядоченные выборки на страницы фиксированного размера.
package paginator

import (
	"context"
	"strconv"
)

// DefaultPerPage - размер страницы по умолчанию.
const DefaultPerPage = 10

// Paginator описывает выборку целиком: сколько объектов и по сколько на странице.
type Paginator struct {
	Count   int64
	PerPage int
}

// New создает пагинатор. Неположительный размер страницы заменяется на DefaultPerPage.
func New(count int64, perPage int) *Paginator {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Paginator{Count: count, PerPage: perPage}
}

// NumPages - число страниц; у пустой выборки одна (пустая) страница.
func (p *Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	per := int64(p.PerPage)
	return int((p.Count + per - 1) / per)
}

// PageRange - номера всех страниц, начиная с 1.
func (p *Paginator) PageRange() []int {
	n := p.NumPages()
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Number приводит сырой номер страницы из запроса к допустимому:
// не число -> первая страница, любое число вне диапазона (в т.ч. 0 и отрицательные) -> последняя.
func (p *Paginator) Number(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if last := p.NumPages(); n < 1 || n > last {
		return last
	}
	return n
}

// Bounds возвращает limit и offset для страницы с номером number.
func (p *Paginator) Bounds(number int) (limit, offset int) {
	return p.PerPage, (number - 1) * p.PerPage
}

// Page - одна страница выборки.
type Page[T any] struct {
	Number     int
	ObjectList []T
	Paginator  *Paginator
}

func (pg *Page[T]) HasNext() bool {
	return pg.Number < pg.Paginator.NumPages()
}

func (pg *Page[T]) HasPrevious() bool {
	return pg.Number > 1
}

func (pg *Page[T]) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg *Page[T]) NextPageNumber() int {
	return pg.Number + 1
}

func (pg *Page[T]) PreviousPageNumber() int {
	return pg.Number - 1
}

// StartIndex - порядковый номер (с 1) первого объекта страницы.
func (pg *Page[T]) StartIndex() int {
	if pg.Paginator.Count == 0 {
		return 0
	}
	return (pg.Number-1)*pg.Paginator.PerPage + 1
}

// Source - выборка, которую можно посчитать и прочитать кусками.
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Slice(ctx context.Context, limit, offset int) ([]T, error)
}

// GetPage считает выборку и читает страницу по сырому номеру из запроса.
func GetPage[T any](ctx context.Context, src Source[T], perPage int, rawNumber string) (*Page[T], error) {
	count, err := src.Count(ctx)
	if err != nil {
		return nil, err
	}
	p := New(count, perPage)
	number := p.Number(rawNumber)

	objects := []T{}
	if count > 0 {
		limit, offset := p.Bounds(number)
		if objects, err = src.Slice(ctx, limit, offset); err != nil {
			return nil, err
		}
	}
	return &Page[T]{Number: number, ObjectList: objects, Paginator: p}, nil
}
