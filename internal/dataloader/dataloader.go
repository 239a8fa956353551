package dataloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/storage"
	"github.com/graph-gophers/dataloader"
)

type contextKey string

const key = contextKey("dataloaders")

// Loaders содержит все дата-лоадеры приложения.
type Loaders struct {
	UserByID  *dataloader.Loader
	GroupByID *dataloader.Loader
}

// NewLoaders создает лоадеры поверх хранилища. Кэш живет столько же, сколько сами лоадеры.
// opts дополняют (и могут переопределить) настройки по умолчанию.
func NewLoaders(store storage.Storage, opts ...dataloader.Option) *Loaders {
	opts = append([]dataloader.Option{dataloader.WithWait(time.Millisecond * 1)}, opts...)
	return &Loaders{
		UserByID:  dataloader.NewBatchedLoader(batchByID(store.GetUsersByIDs), opts...),
		GroupByID: dataloader.NewBatchedLoader(batchByID(store.GetGroupsByIDs), opts...),
	}
}

// Middleware для внедрения лоадеров в контекст запроса.
func Middleware(store storage.Storage, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), key, NewLoaders(store))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// For извлекает лоадеры из контекста; nil, если Middleware не подключен.
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(key).(*Loaders)
	return loaders
}

// batchByID превращает batch-метод хранилища в батч-функцию лоадера.
func batchByID[T any](fetch func(ctx context.Context, ids []uint) (map[uint]T, error)) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		// Преобразуем ключи в []uint
		ids := make([]uint, len(keys))
		for i, k := range keys {
			id, _ := strconv.ParseUint(k.String(), 10, 64)
			ids[i] = uint(id)
		}

		// Вызываем метод хранилища, который делает ОДИН запрос к БД
		found, err := fetch(ctx, ids)
		results := make([]*dataloader.Result, len(keys))
		if err != nil {
			// В случае ошибки, возвращаем ее для всех ключей
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		// Формируем результат в том же порядке, что и ключи
		for i, id := range ids {
			v, ok := found[id]
			if !ok {
				results[i] = &dataloader.Result{Error: fmt.Errorf("id %d: %w", id, storage.ErrNotFound)}
				continue
			}
			results[i] = &dataloader.Result{Data: v}
		}
		return results
	}
}

func idKey(id uint) dataloader.Key {
	return dataloader.StringKey(strconv.FormatUint(uint64(id), 10))
}

// Hydrate заполняет Author и Group у постов: по одному запросу к хранилищу на всю страницу.
func Hydrate(ctx context.Context, posts ...*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	loaders := For(ctx)
	if loaders == nil {
		return errors.New("dataloaders are not attached to the request context")
	}

	authorKeys := make(dataloader.Keys, len(posts))
	for i, p := range posts {
		authorKeys[i] = idKey(p.AuthorID)
	}
	var (
		groupKeys dataloader.Keys
		grouped   []*domain.Post
	)
	for _, p := range posts {
		if p.GroupID != nil {
			groupKeys = append(groupKeys, idKey(*p.GroupID))
			grouped = append(grouped, p)
		}
	}

	// Запускаем обе загрузки до ожидания, чтобы они ушли параллельно
	authorsThunk := loaders.UserByID.LoadMany(ctx, authorKeys)
	var groupsThunk dataloader.ThunkMany
	if len(groupKeys) > 0 {
		groupsThunk = loaders.GroupByID.LoadMany(ctx, groupKeys)
	}

	authors, errs := authorsThunk()
	if err := firstError(errs); err != nil {
		return fmt.Errorf("failed to load post authors: %w", err)
	}
	for i, p := range posts {
		p.Author, _ = authors[i].(*domain.User)
	}

	if groupsThunk == nil {
		return nil
	}
	groups, errs := groupsThunk()
	if err := firstError(errs); err != nil {
		return fmt.Errorf("failed to load post groups: %w", err)
	}
	for i, p := range grouped {
		p.Group, _ = groups[i].(*domain.Group)
	}
	return nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
