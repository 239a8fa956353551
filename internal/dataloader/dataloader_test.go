package dataloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"
	"github.com/UkralStul/wordicum/internal/storage/inmemory"
	"github.com/graph-gophers/dataloader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore считает обращения к batch-методам
type countingStore struct {
	storage.Storage
	userCalls  atomic.Int32
	groupCalls atomic.Int32
}

func (s *countingStore) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]*domain.User, error) {
	s.userCalls.Add(1)
	return s.Storage.GetUsersByIDs(ctx, ids)
}

func (s *countingStore) GetGroupsByIDs(ctx context.Context, ids []uint) (map[uint]*domain.Group, error) {
	s.groupCalls.Add(1)
	return s.Storage.GetGroupsByIDs(ctx, ids)
}

func TestHydrate_BatchesLookups(t *testing.T) {
	ctx := context.Background()
	mem := inmemory.New()
	store := &countingStore{Storage: mem}

	alice, err := mem.CreateUser(ctx, &domain.User{Username: "alice"})
	require.NoError(t, err)
	bob, err := mem.CreateUser(ctx, &domain.User{Username: "bob"})
	require.NoError(t, err)
	group, err := mem.CreateGroup(ctx, &domain.Group{Title: "Cats", Slug: "cats"})
	require.NoError(t, err)

	posts := []*domain.Post{
		{ID: 1, AuthorID: alice.ID, GroupID: &group.ID},
		{ID: 2, AuthorID: bob.ID},
		{ID: 3, AuthorID: alice.ID, GroupID: &group.ID},
	}

	// Окно побольше, чтобы все ключи гарантированно попали в один батч
	ctx = context.WithValue(ctx, key, NewLoaders(store, dataloader.WithWait(50*time.Millisecond)))
	require.NoError(t, Hydrate(ctx, posts...))

	assert.Equal(t, "alice", posts[0].Author.Username)
	assert.Equal(t, "bob", posts[1].Author.Username)
	assert.Equal(t, "alice", posts[2].Author.Username)
	assert.Equal(t, "cats", posts[0].Group.Slug)
	assert.Nil(t, posts[1].Group)
	assert.Equal(t, int32(1), store.userCalls.Load())
	assert.Equal(t, int32(1), store.groupCalls.Load())
}

func TestHydrate_MissingAuthor(t *testing.T) {
	ctx := context.WithValue(context.Background(), key, NewLoaders(inmemory.New()))
	err := Hydrate(ctx, &domain.Post{ID: 1, AuthorID: 77})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHydrate_WithoutMiddleware(t *testing.T) {
	assert.NoError(t, Hydrate(context.Background()))
	assert.Error(t, Hydrate(context.Background(), &domain.Post{AuthorID: 1}))
}

func TestMiddleware_AttachesLoaders(t *testing.T) {
	var got *Loaders
	h := Middleware(inmemory.New(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = For(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	assert.NotNil(t, got.UserByID)
	assert.NotNil(t, got.GroupByID)
}
