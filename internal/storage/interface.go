package storage

import (
	"context"
	"errors"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"
)

var (
	// ErrNotFound возвращается, когда запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrConflict возвращается при нарушении уникальности (slug группы, имя пользователя).
	ErrConflict = errors.New("record already exists")
	// ErrInvalid возвращается, когда запись нарушает ограничения схемы.
	ErrInvalid = errors.New("record violates schema constraints")
)

// PostFilter - условия выборки постов. Пустой фильтр выбирает все посты.
type PostFilter struct {
	AuthorID *uint
	GroupID  *uint
	NoGroup  bool       // только посты без группы
	Search   string     // подстрока в тексте, без учета регистра
	Since    *time.Time // pub_date >= Since
}

// Storage определяет контракт для хранилищ.
// Посты всегда отдаются в порядке от новых к старым.
type Storage interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]*domain.Group, error)

	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	GetPostByID(ctx context.Context, id uint) (*domain.Post, error)
	// UpdatePost меняет только текст и группу; автор и дата публикации неизменны.
	UpdatePost(ctx context.Context, id uint, text string, groupID *uint) (*domain.Post, error)

	// Методы для пагинации
	ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]*domain.Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)

	// Методы для Dataloader'ов
	GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error)
	GetGroupsByIDs(ctx context.Context, ids []uint) (map[uint]*domain.Group, error)
}
