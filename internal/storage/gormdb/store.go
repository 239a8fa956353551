package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store реализует интерфейс Storage поверх gorm (PostgreSQL или SQLite).
type Store struct {
	db *gorm.DB
}

// Postgres открывает хранилище PostgreSQL по DSN.
func Postgres(dsn string, debug bool) (*Store, error) {
	return New(postgres.Open(dsn), debug)
}

// SQLite открывает хранилище в файле SQLite (":memory:" для тестов).
func SQLite(path string, debug bool) (*Store, error) {
	return New(sqliteDialector(path), debug)
}

// New создает хранилище для произвольного диалекта gorm и выполняет миграцию схемы.
func New(dialector gorm.Dialector, debug bool) (*Store, error) {
	level := logger.Warn
	if debug {
		level = logger.Info // Включаем логирование SQL для отладки
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate выполняет миграцию схемы.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&domain.User{}, &domain.Group{}, &domain.Post{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// DB отдает соединение gorm (используется тестами и командами CLI).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close закрывает пул соединений.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound переводит gorm.ErrRecordNotFound в storage.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return err
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if strings.TrimSpace(user.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", storage.ErrInvalid)
	}
	if user.PasswordHash == nil {
		// Пользователь без пароля не может войти, но колонка NOT NULL
		user.PasswordHash = []byte{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("user %q: %w", user.Username, storage.ErrConflict)
		}
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("user %q: %w", user.Username, storage.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user with id %d", id))
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user %q", username))
	}
	return &user, nil
}

// === Group Methods ===

func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if err := storage.ValidateGroup(group); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Group{}).Where("slug = ?", group.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("group %q: %w", group.Slug, storage.ErrConflict)
		}
		return tx.Create(group).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("group %q: %w", group.Slug, storage.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Store) GetGroupBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	var group domain.Group
	if err := s.db.WithContext(ctx).First(&group, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("group %q", slug))
	}
	return &group, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	var groups []*domain.Group
	err := s.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := storage.ValidatePost(post); err != nil {
		return nil, err
	}

	// Проверяем существование автора и группы в одной транзакции
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.User{}, "id = ?", post.AuthorID).Error; err != nil {
			return notFound(err, fmt.Sprintf("author %d", post.AuthorID))
		}
		if post.GroupID != nil {
			if err := tx.Select("id").First(&domain.Group{}, "id = ?", *post.GroupID).Error; err != nil {
				return notFound(err, fmt.Sprintf("group %d", *post.GroupID))
			}
		}
		// Связанные записи не сохраняем, только внешние ключи
		return tx.Omit(clause.Associations).Create(post).Error
	})
	if err != nil {
		return nil, err
	}
	// GORM автоматически заполнит ID и PubDate после создания
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("post with id %d", id))
	}
	return &post, nil
}

func (s *Store) UpdatePost(ctx context.Context, id uint, text string, groupID *uint) (*domain.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: post text is required", storage.ErrInvalid)
	}

	var post domain.Post
	// Используем транзакцию для атомарности операции чтения-записи
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			return notFound(err, fmt.Sprintf("post with id %d", id))
		}
		if groupID != nil {
			if err := tx.Select("id").First(&domain.Group{}, "id = ?", *groupID).Error; err != nil {
				return notFound(err, fmt.Sprintf("group %d", *groupID))
			}
		}
		// pub_date и author_id не трогаем
		return tx.Model(&post).Select("text", "group_id").Updates(map[string]interface{}{
			"text":     text,
			"group_id": groupID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	return &post, nil
}

// === Pagination Methods ===

func (s *Store) ListPosts(ctx context.Context, filter storage.PostFilter, limit, offset int) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := s.filtered(ctx, filter).
		Order("pub_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s *Store) CountPosts(ctx context.Context, filter storage.PostFilter) (int64, error) {
	var count int64
	err := s.filtered(ctx, filter).Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) filtered(ctx context.Context, f storage.PostFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&domain.Post{})
	if f.AuthorID != nil {
		query = query.Where("author_id = ?", *f.AuthorID)
	}
	if f.GroupID != nil {
		query = query.Where("group_id = ?", *f.GroupID)
	}
	if f.NoGroup {
		query = query.Where("group_id IS NULL")
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		query = query.Where(`LOWER(text) LIKE ? ESCAPE '\'`, pattern)
	}
	if f.Since != nil {
		query = query.Where("pub_date >= ?", *f.Since)
	}
	return query
}

// === Dataloader Methods ===

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error) {
	var users []*domain.User
	// Загружаем всех авторов одним запросом
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]*domain.User, len(users))
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (s *Store) GetGroupsByIDs(ctx context.Context, ids []uint) (map[uint]*domain.Group, error) {
	var groups []*domain.Group
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&groups).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]*domain.Group, len(groups))
	for _, g := range groups {
		result[g.ID] = g
	}
	return result, nil
}
