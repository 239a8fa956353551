// Package storagetest содержит общий набор тестов для реализаций storage.Storage.
package storagetest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory создает пустое хранилище для одного теста.
type Factory func(t *testing.T) storage.Storage

// Run прогоняет все проверки контракта хранилища.
func Run(t *testing.T, newStore Factory) {
	tests := map[string]func(t *testing.T, s storage.Storage){
		"CreateAndGetPost":       testCreateAndGetPost,
		"PostWithoutGroup":       testPostWithoutGroup,
		"PostRequiresAuthor":     testPostRequiresAuthor,
		"UpdatePostKeepsAuthor":  testUpdatePostKeepsAuthor,
		"UpdatePostUnknownGroup": testUpdatePostUnknownGroup,
		"GroupConstraints":       testGroupConstraints,
		"UniqueUsername":         testUniqueUsername,
		"ListPostsNewestFirst":   testListPostsNewestFirst,
		"ListPostsFilters":       testListPostsFilters,
		"Pagination":             testPagination,
		"BatchLookups":           testBatchLookups,
		"NotFound":               testNotFound,
		"SearchUnicode":          testSearchUnicode,
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

// seed создает автора и группу для тестов
func seed(t *testing.T, s storage.Storage) (*domain.User, *domain.Group) {
	ctx := context.Background()
	user, err := s.CreateUser(ctx, &domain.User{Username: "leo", PasswordHash: []byte("x")})
	require.NoError(t, err)
	group, err := s.CreateGroup(ctx, &domain.Group{
		Title:       "Test group 1",
		Slug:        "test-link",
		Description: "Test group description",
	})
	require.NoError(t, err)
	return user, group
}

func testCreateAndGetPost(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, group := seed(t, s)

	post, err := s.CreatePost(ctx, &domain.Post{Text: "Test post 2", AuthorID: user.ID, GroupID: &group.ID})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.False(t, post.PubDate.IsZero())

	retrieved, err := s.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test post 2", retrieved.Text)
	assert.Equal(t, user.ID, retrieved.AuthorID)
	require.NotNil(t, retrieved.GroupID)
	assert.Equal(t, group.ID, *retrieved.GroupID)
}

func testPostWithoutGroup(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, group := seed(t, s)

	_, err := s.CreatePost(ctx, &domain.Post{Text: "with group", AuthorID: user.ID, GroupID: &group.ID})
	require.NoError(t, err)
	post, err := s.CreatePost(ctx, &domain.Post{Text: "Test post 1", AuthorID: user.ID})
	require.NoError(t, err)
	assert.Nil(t, post.GroupID)

	posts, err := s.ListPosts(ctx, storage.PostFilter{AuthorID: &user.ID, NoGroup: true}, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
}

func testPostRequiresAuthor(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, _ := seed(t, s)

	_, err := s.CreatePost(ctx, &domain.Post{Text: "orphan"})
	assert.ErrorIs(t, err, storage.ErrInvalid)

	_, err = s.CreatePost(ctx, &domain.Post{Text: "ghost", AuthorID: user.ID + 1000})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.CreatePost(ctx, &domain.Post{Text: "   ", AuthorID: user.ID})
	assert.ErrorIs(t, err, storage.ErrInvalid)

	count, err := s.CountPosts(ctx, storage.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testUpdatePostKeepsAuthor(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, group := seed(t, s)

	post, err := s.CreatePost(ctx, &domain.Post{Text: "before", AuthorID: user.ID})
	require.NoError(t, err)
	created, err := s.GetPostByID(ctx, post.ID)
	require.NoError(t, err)

	updated, err := s.UpdatePost(ctx, post.ID, "Post edit check!", &group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Post edit check!", updated.Text)

	retrieved, err := s.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Post edit check!", retrieved.Text)
	assert.Equal(t, user.ID, retrieved.AuthorID)
	assert.True(t, created.PubDate.Equal(retrieved.PubDate))
	require.NotNil(t, retrieved.GroupID)
	assert.Equal(t, group.ID, *retrieved.GroupID)

	// Сбрасываем группу
	_, err = s.UpdatePost(ctx, post.ID, "no group", nil)
	require.NoError(t, err)
	retrieved, err = s.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved.GroupID)
}

func testUpdatePostUnknownGroup(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, group := seed(t, s)

	post, err := s.CreatePost(ctx, &domain.Post{Text: "keep", AuthorID: user.ID, GroupID: &group.ID})
	require.NoError(t, err)

	missing := group.ID + 1000
	_, err = s.UpdatePost(ctx, post.ID, "changed", &missing)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	retrieved, err := s.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", retrieved.Text)

	_, err = s.UpdatePost(ctx, post.ID+1000, "changed", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testGroupConstraints(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	seed(t, s)

	_, err := s.CreateGroup(ctx, &domain.Group{Title: "Another", Slug: "test-link"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.CreateGroup(ctx, &domain.Group{Title: strings.Repeat("a", 201), Slug: "long"})
	assert.ErrorIs(t, err, storage.ErrInvalid)

	_, err = s.CreateGroup(ctx, &domain.Group{Title: strings.Repeat("a", 200), Slug: "long"})
	assert.NoError(t, err)

	_, err = s.CreateGroup(ctx, &domain.Group{Title: "No slug"})
	assert.ErrorIs(t, err, storage.ErrInvalid)

	// slug, который не может быть сегментом пути, не сохраняется
	for _, bad := range []string{"a b/c", "Upper", "trailing-", "кошки"} {
		_, err = s.CreateGroup(ctx, &domain.Group{Title: "Bad slug", Slug: bad})
		assert.ErrorIs(t, err, storage.ErrInvalid, bad)
	}

	groups, err := s.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	g, err := s.GetGroupBySlug(ctx, "test-link")
	require.NoError(t, err)
	assert.Equal(t, "Test group 1", g.Title)
	assert.Equal(t, "Test group description", g.Description)
}

func testUniqueUsername(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	seed(t, s)

	_, err := s.CreateUser(ctx, &domain.User{Username: "leo"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	u, err := s.GetUserByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, "leo", u.Username)

	byID, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, byID.Username)
}

func testListPostsNewestFirst(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, _ := seed(t, s)

	var ids []uint
	for i := 0; i < 3; i++ {
		p, err := s.CreatePost(ctx, &domain.Post{Text: fmt.Sprintf("post %d", i), AuthorID: user.ID})
		require.NoError(t, err)
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}

	posts, err := s.ListPosts(ctx, storage.PostFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, ids[2], posts[0].ID)
	assert.Equal(t, ids[1], posts[1].ID)
	assert.Equal(t, ids[0], posts[2].ID)
}

func testListPostsFilters(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, group := seed(t, s)
	other, err := s.CreateUser(ctx, &domain.User{Username: "other"})
	require.NoError(t, err)

	_, err = s.CreatePost(ctx, &domain.Post{Text: "Hello World", AuthorID: user.ID, GroupID: &group.ID})
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, &domain.Post{Text: "100% sure", AuthorID: other.ID})
	require.NoError(t, err)

	count, err := s.CountPosts(ctx, storage.PostFilter{GroupID: &group.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = s.CountPosts(ctx, storage.PostFilter{AuthorID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	posts, err := s.ListPosts(ctx, storage.PostFilter{Search: "hello"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello World", posts[0].Text)

	count, err = s.CountPosts(ctx, storage.PostFilter{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	future := time.Now().Add(time.Hour)
	count, err = s.CountPosts(ctx, storage.PostFilter{Since: &future})
	require.NoError(t, err)
	assert.Zero(t, count)

	past := time.Now().Add(-time.Hour)
	count, err = s.CountPosts(ctx, storage.PostFilter{Since: &past})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func testPagination(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, group := seed(t, s)

	for i := 0; i < 20; i++ {
		_, err := s.CreatePost(ctx, &domain.Post{Text: fmt.Sprintf("post %d", i), AuthorID: user.ID, GroupID: &group.ID})
		require.NoError(t, err)
	}

	firstPage, err := s.ListPosts(ctx, storage.PostFilter{GroupID: &group.ID}, 10, 0)
	require.NoError(t, err)
	require.Len(t, firstPage, 10)

	secondPage, err := s.ListPosts(ctx, storage.PostFilter{GroupID: &group.ID}, 10, 10)
	require.NoError(t, err)
	require.Len(t, secondPage, 10)

	// Убеждаемся, что страницы не пересекаются
	seen := make(map[uint]bool)
	for _, p := range append(firstPage, secondPage...) {
		assert.False(t, seen[p.ID], "post %d listed twice", p.ID)
		seen[p.ID] = true
	}

	empty, err := s.ListPosts(ctx, storage.PostFilter{}, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testBatchLookups(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, group := seed(t, s)

	users, err := s.GetUsersByIDs(ctx, []uint{user.ID, user.ID + 1000})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "leo", users[user.ID].Username)

	groups, err := s.GetGroupsByIDs(ctx, []uint{group.ID})
	require.NoError(t, err)
	assert.Equal(t, "test-link", groups[group.ID].Slug)
}

func testNotFound(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.GetPostByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetGroupBySlug(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testSearchUnicode(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	user, _ := seed(t, s)

	_, err := s.CreatePost(ctx, &domain.Post{Text: "Тестовый пост", AuthorID: user.ID})
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, &domain.Post{Text: "Hello World", AuthorID: user.ID})
	require.NoError(t, err)

	// регистр не важен и для кириллицы
	for _, q := range []string{"Тестовый", "тестовый", "ТЕСТОВЫЙ", "пост", "ПОСТ", "вый П"} {
		posts, err := s.ListPosts(ctx, storage.PostFilter{Search: q}, 10, 0)
		require.NoError(t, err, q)
		require.Len(t, posts, 1, q)
		assert.Equal(t, "Тестовый пост", posts[0].Text, q)

		count, err := s.CountPosts(ctx, storage.PostFilter{Search: q})
		require.NoError(t, err, q)
		assert.Equal(t, int64(1), count, q)
	}

	count, err := s.CountPosts(ctx, storage.PostFilter{Search: "кот"})
	require.NoError(t, err)
	assert.Zero(t, count)
}
