package gormdb

import (
	"context"
	"testing"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"
	"github.com/UkralStul/wordicum/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	store, err := SQLite(":memory:", false)
	require.NoError(t, err)

	// каждое новое соединение к ":memory:" открывает пустую базу
	sqlDB, err := store.DB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return setupTestStore(t)
	})
}

func TestStore_Schema(t *testing.T) {
	store := setupTestStore(t)
	migrator := store.DB().Migrator()

	assert.True(t, migrator.HasTable(&domain.Post{}))
	assert.True(t, migrator.HasTable(&domain.Group{}))
	assert.True(t, migrator.HasTable(&domain.User{}))
	assert.True(t, migrator.HasIndex(&domain.Group{}, "Slug"))
	assert.True(t, migrator.HasColumn(&domain.Post{}, "pub_date"))
	assert.True(t, migrator.HasColumn(&domain.Post{}, "group_id"))
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Migrate())
}

func TestStore_UpdateDoesNotTouchPubDate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, &domain.User{Username: "author"})
	require.NoError(t, err)
	post, err := store.CreatePost(ctx, &domain.Post{Text: "first", AuthorID: user.ID})
	require.NoError(t, err)

	var before domain.Post
	require.NoError(t, store.DB().First(&before, post.ID).Error)

	_, err = store.UpdatePost(ctx, post.ID, "second", nil)
	require.NoError(t, err)

	var after domain.Post
	require.NoError(t, store.DB().First(&after, post.ID).Error)
	assert.True(t, before.PubDate.Equal(after.PubDate))
	assert.Equal(t, before.AuthorID, after.AuthorID)
	assert.Equal(t, "second", after.Text)
}
