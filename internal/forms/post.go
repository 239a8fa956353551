package forms

import (
	"net/url"
	"strconv"

	"github.com/UkralStul/wordicum/internal/domain"
)

// PostFields - схема формы поста: ровно два поля, порядок важен для отрисовки.
var PostFields = []Field{
	{Name: "text", Label: "Text", Kind: KindText, Required: true, HelpText: "Text of the new post"},
	{Name: "group", Label: "Group", Kind: KindChoice, Required: false, HelpText: "Group the post will belong to"},
}

// PostForm - форма создания и редактирования поста.
type PostForm struct {
	Text    string `form:"text" validate:"required"`
	GroupID *uint  `form:"-"`

	groupRaw string
	Groups   []*domain.Group
	Errors   Errors
}

// NewPostForm создает пустую форму с вариантами выбора группы.
func NewPostForm(groups []*domain.Group) *PostForm {
	return &PostForm{Groups: groups, Errors: Errors{}}
}

// Fields отдает статическую схему формы.
func (f *PostForm) Fields() []Field {
	return PostFields
}

// Fill заполняет форму значениями существующего поста.
func (f *PostForm) Fill(post *domain.Post) {
	f.Text = post.Text
	f.GroupID = post.GroupID
	f.groupRaw = ""
	if post.GroupID != nil {
		f.groupRaw = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
}

// Bind читает значения из отправленной формы и проверяет их. Возвращает true, если форма валидна.
func (f *PostForm) Bind(values url.Values) bool {
	f.Errors = Errors{}
	f.Text = value(values, "text")
	f.groupRaw = value(values, "group")
	f.GroupID = nil

	if f.groupRaw != "" {
		if id, ok := f.choice(f.groupRaw); ok {
			f.GroupID = &id
		} else {
			f.Errors.Add("group", MsgInvalidChoice)
		}
	}

	check(f, f.Errors)
	return !f.Errors.Any()
}

// choice ищет группу среди допустимых вариантов.
func (f *PostForm) choice(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	for _, g := range f.Groups {
		if uint64(g.ID) == id {
			return g.ID, true
		}
	}
	return 0, false
}

// Value - текущее значение поля для отрисовки.
func (f *PostForm) Value(name string) string {
	switch name {
	case "text":
		return f.Text
	case "group":
		return f.groupRaw
	}
	return ""
}

// Selected сообщает шаблону, выбрана ли группа с данным ID.
func (f *PostForm) Selected(id uint) bool {
	return f.groupRaw == strconv.FormatUint(uint64(id), 10)
}
