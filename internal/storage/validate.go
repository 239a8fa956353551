package storage

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/gosimple/slug"
)

// ValidateGroup проверяет ограничения схемы группы до записи в хранилище.
func ValidateGroup(g *domain.Group) error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: group title is required", ErrInvalid)
	}
	if utf8.RuneCountInString(g.Title) > domain.GroupTitleMaxLen {
		return fmt.Errorf("%w: group title exceeds %d characters", ErrInvalid, domain.GroupTitleMaxLen)
	}
	if strings.TrimSpace(g.Slug) == "" {
		return fmt.Errorf("%w: group slug is required", ErrInvalid)
	}
	// slug попадает в путь /group/{slug}/, поэтому только [a-z0-9-]
	if !slug.IsSlug(g.Slug) {
		return fmt.Errorf("%w: group slug %q is not URL-safe", ErrInvalid, g.Slug)
	}
	return nil
}

// ValidatePost проверяет обязательные поля поста.
func ValidatePost(p *domain.Post) error {
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("%w: post text is required", ErrInvalid)
	}
	if p.AuthorID == 0 {
		return fmt.Errorf("%w: post author is required", ErrInvalid)
	}
	return nil
}
