package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"
)

// Store реализует интерфейс Storage в памяти.
// Наружу отдаются только копии, чтобы вызывающий код не мог менять данные в обход хранилища.
type Store struct {
	mu          sync.RWMutex
	users       map[uint]*domain.User
	groups      map[uint]*domain.Group
	posts       map[uint]*domain.Post
	userByName  map[string]uint
	groupBySlug map[string]uint
	nextID      uint
}

// New создает новый экземпляр in-memory хранилища.
func New() *Store {
	return &Store{
		users:       make(map[uint]*domain.User),
		groups:      make(map[uint]*domain.Group),
		posts:       make(map[uint]*domain.Post),
		userByName:  make(map[string]uint),
		groupBySlug: make(map[string]uint),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(user.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", storage.ErrInvalid)
	}
	if _, ok := s.userByName[user.Username]; ok {
		return nil, fmt.Errorf("user %q: %w", user.Username, storage.ErrConflict)
	}

	u := *user
	u.ID = s.id()
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}
	s.users[u.ID] = &u
	s.userByName[u.Username] = u.ID
	*user = u
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d: %w", id, storage.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByName[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	cp := *s.users[id]
	return &cp, nil
}

// === Group Methods ===

func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if err := storage.ValidateGroup(group); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groupBySlug[group.Slug]; ok {
		return nil, fmt.Errorf("group %q: %w", group.Slug, storage.ErrConflict)
	}

	g := *group
	g.ID = s.id()
	s.groups[g.ID] = &g
	s.groupBySlug[g.Slug] = g.ID
	*group = g
	return &g, nil
}

func (s *Store) GetGroupBySlug(ctx context.Context, slug string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.groupBySlug[slug]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", slug, storage.ErrNotFound)
	}
	cp := *s.groups[id]
	return &cp, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*domain.Group, 0, len(s.groups))
	for _, g := range s.groups {
		cp := *g
		groups = append(groups, &cp)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Title < groups[j].Title
	})
	return groups, nil
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := storage.ValidatePost(post); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Проверка внешних ключей
	if _, ok := s.users[post.AuthorID]; !ok {
		return nil, fmt.Errorf("author %d: %w", post.AuthorID, storage.ErrNotFound)
	}
	if post.GroupID != nil {
		if _, ok := s.groups[*post.GroupID]; !ok {
			return nil, fmt.Errorf("group %d: %w", *post.GroupID, storage.ErrNotFound)
		}
	}

	p := clonePost(post)
	p.ID = s.id()
	p.PubDate = time.Now().UTC()
	p.Author, p.Group = nil, nil
	s.posts[p.ID] = p
	*post = *clonePost(p)
	return clonePost(p), nil
}

func (s *Store) GetPostByID(ctx context.Context, id uint) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with id %d: %w", id, storage.ErrNotFound)
	}
	return clonePost(post), nil
}

func (s *Store) UpdatePost(ctx context.Context, id uint, text string, groupID *uint) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with id %d: %w", id, storage.ErrNotFound)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: post text is required", storage.ErrInvalid)
	}
	if groupID != nil {
		if _, ok := s.groups[*groupID]; !ok {
			return nil, fmt.Errorf("group %d: %w", *groupID, storage.ErrNotFound)
		}
	}

	post.Text = text
	post.GroupID = copyID(groupID)
	return clonePost(post), nil
}

// === Pagination Methods ===

func (s *Store) ListPosts(ctx context.Context, filter storage.PostFilter, limit, offset int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.filterPosts(filter)

	start := offset
	if start >= len(all) {
		return []*domain.Post{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	page := make([]*domain.Post, 0, end-start)
	for _, p := range all[start:end] {
		page = append(page, clonePost(p))
	}
	return page, nil
}

func (s *Store) CountPosts(ctx context.Context, filter storage.PostFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filterPosts(filter))), nil
}

// filterPosts - вспомогательная функция, вызывается под блокировкой.
func (s *Store) filterPosts(f storage.PostFilter) []*domain.Post {
	search := strings.ToLower(f.Search)

	matched := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
			continue
		}
		if f.GroupID != nil && (p.GroupID == nil || *p.GroupID != *f.GroupID) {
			continue
		}
		if f.NoGroup && p.GroupID != nil {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Text), search) {
			continue
		}
		if f.Since != nil && p.PubDate.Before(*f.Since) {
			continue
		}
		matched = append(matched, p)
	}

	// Новые посты первыми; при равной дате порядок задает ID
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].PubDate.After(matched[j].PubDate)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched
}

// === Dataloader Methods ===

func (s *Store) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[uint]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			result[id] = &cp
		}
	}
	return result, nil
}

func (s *Store) GetGroupsByIDs(ctx context.Context, ids []uint) (map[uint]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[uint]*domain.Group, len(ids))
	for _, id := range ids {
		if g, ok := s.groups[id]; ok {
			cp := *g
			result[id] = &cp
		}
	}
	return result, nil
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.GroupID = copyID(p.GroupID)
	return &cp
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
