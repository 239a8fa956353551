// Package admin описывает read-only список постов для операторов.
package admin

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"
)

// Фильтры по дате публикации.
const (
	FilterAny       = ""
	FilterToday     = "today"
	FilterPast7Days = "past_7_days"
	FilterThisMonth = "this_month"
	FilterThisYear  = "this_year"
)

// DateFilter - один вариант фильтра по pub_date.
type DateFilter struct {
	Value string
	Label string
}

// PostAdmin - конфигурация списка постов. Строится один раз при старте и не меняется.
type PostAdmin struct {
	listDisplay       []string
	searchFields      []string
	listFilter        []string
	emptyValueDisplay string
	textPreview       int
}

// NewPostAdmin создает конфигурацию списка постов.
func NewPostAdmin() PostAdmin {
	return PostAdmin{
		listDisplay:       []string{"text", "pub_date", "author"},
		searchFields:      []string{"text"},
		listFilter:        []string{"pub_date"},
		emptyValueDisplay: "-empty-",
		textPreview:       100,
	}
}

// Геттеры отдают копии, чтобы конфигурацию нельзя было изменить снаружи.

func (a PostAdmin) ListDisplay() []string {
	return append([]string(nil), a.listDisplay...)
}

func (a PostAdmin) SearchFields() []string {
	return append([]string(nil), a.searchFields...)
}

func (a PostAdmin) ListFilter() []string {
	return append([]string(nil), a.listFilter...)
}

func (a PostAdmin) EmptyValueDisplay() string {
	return a.emptyValueDisplay
}

// DateFilters - варианты фильтра по pub_date в порядке отображения.
func (a PostAdmin) DateFilters() []DateFilter {
	return []DateFilter{
		{Value: FilterAny, Label: "Any date"},
		{Value: FilterToday, Label: "Today"},
		{Value: FilterPast7Days, Label: "Past 7 days"},
		{Value: FilterThisMonth, Label: "This month"},
		{Value: FilterThisYear, Label: "This year"},
	}
}

// Filter переводит параметры запроса (поиск и фильтр по дате) в фильтр хранилища.
// Неизвестное значение фильтра даты означает "любая дата".
func (a PostAdmin) Filter(query, dateFilter string, now time.Time) storage.PostFilter {
	f := storage.PostFilter{Search: strings.TrimSpace(query)}
	if since, ok := a.since(dateFilter, now); ok {
		f.Since = &since
	}
	return f
}

func (a PostAdmin) since(dateFilter string, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch dateFilter {
	case FilterToday:
		return today, true
	case FilterPast7Days:
		return today.AddDate(0, 0, -7), true
	case FilterThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case FilterThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// Row - одна строка таблицы, значения в порядке ListDisplay.
type Row struct {
	PostID uint
	Cells  []string
}

// Rows строит строки таблицы; пустые значения заменяются на EmptyValueDisplay.
// Author у постов должен быть уже загружен.
func (a PostAdmin) Rows(posts []*domain.Post) []Row {
	rows := make([]Row, 0, len(posts))
	for _, p := range posts {
		cells := make([]string, len(a.listDisplay))
		for i, col := range a.listDisplay {
			cells[i] = a.cell(p, col)
		}
		rows = append(rows, Row{PostID: p.ID, Cells: cells})
	}
	return rows
}

func (a PostAdmin) cell(p *domain.Post, col string) string {
	var v string
	switch col {
	case "text":
		v = a.preview(strings.TrimSpace(p.Text))
	case "pub_date":
		if !p.PubDate.IsZero() {
			v = p.PubDate.Format("Jan. 2, 2006, 15:04")
		}
	case "author":
		v = p.Author.String()
	case "group":
		v = p.Group.String()
	}
	if v == "" {
		return a.emptyValueDisplay
	}
	return v
}

func (a PostAdmin) preview(s string) string {
	if utf8.RuneCountInString(s) <= a.textPreview {
		return s
	}
	return string([]rune(s)[:a.textPreview]) + "…"
}
