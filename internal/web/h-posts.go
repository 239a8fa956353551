package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/UkralStul/wordicum/internal/dataloader"
	"github.com/UkralStul/wordicum/internal/domain"
	"github.com/UkralStul/wordicum/internal/feed"
	"github.com/UkralStul/wordicum/internal/forms"
	"github.com/UkralStul/wordicum/internal/paginator"
	"github.com/UkralStul/wordicum/internal/storage"
	"github.com/go-chi/chi/v5"
)

// postSource - выборка постов по фильтру для пагинатора.
type postSource struct {
	store  storage.Storage
	filter storage.PostFilter
}

func (s postSource) Count(ctx context.Context) (int64, error) {
	return s.store.CountPosts(ctx, s.filter)
}

func (s postSource) Slice(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	return s.store.ListPosts(ctx, s.filter, limit, offset)
}

// postsPage читает страницу постов по ?page= и подгружает авторов и группы.
func (app *App) postsPage(r *http.Request, filter storage.PostFilter) (*paginator.Page[*domain.Post], error) {
	src := postSource{store: app.store, filter: filter}
	page, err := paginator.GetPage[*domain.Post](r.Context(), src, app.pageSize, r.URL.Query().Get("page"))
	if err != nil {
		return nil, err
	}
	if err := dataloader.Hydrate(r.Context(), page.ObjectList...); err != nil {
		return nil, err
	}
	return page, nil
}

func (app *App) index(w http.ResponseWriter, r *http.Request) {
	page, err := app.postsPage(r, storage.PostFilter{})
	if err != nil {
		app.ServerError(w, err)
		return
	}
	app.renderHTML(w, r, http.StatusOK, "index.page.html", &templateData{
		Title:   "Latest posts",
		PageObj: page,
	})
}

func (app *App) groupPosts(w http.ResponseWriter, r *http.Request) {
	group, err := app.store.GetGroupBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		app.storageError(w, err)
		return
	}

	page, err := app.postsPage(r, storage.PostFilter{GroupID: &group.ID})
	if err != nil {
		app.ServerError(w, err)
		return
	}
	app.renderHTML(w, r, http.StatusOK, "group_list.page.html", &templateData{
		Title:   group.Title,
		Group:   group,
		PageObj: page,
	})
}

func (app *App) profile(w http.ResponseWriter, r *http.Request) {
	author, err := app.store.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		app.storageError(w, err)
		return
	}

	page, err := app.postsPage(r, storage.PostFilter{AuthorID: &author.ID})
	if err != nil {
		app.ServerError(w, err)
		return
	}
	app.renderHTML(w, r, http.StatusOK, "profile.page.html", &templateData{
		Title:     "Profile of " + author.Username,
		Author:    author,
		PostCount: page.Paginator.Count,
		PageObj:   page,
	})
}

func (app *App) postDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := app.loadPost(w, r)
	if !ok {
		return
	}

	count, err := app.store.CountPosts(r.Context(), storage.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		app.ServerError(w, err)
		return
	}
	app.renderHTML(w, r, http.StatusOK, "post_detail.page.html", &templateData{
		Title:     "Post " + strconv.FormatUint(uint64(post.ID), 10),
		Post:      post,
		Author:    post.Author,
		PostCount: count,
	})
}

func (app *App) postCreate(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	form, ok := app.newPostForm(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		app.renderPostForm(w, r, form, nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}
	if !form.Bind(r.PostForm) {
		app.renderPostForm(w, r, form, nil)
		return
	}

	post, err := app.store.CreatePost(r.Context(), &domain.Post{
		Text:     form.Text,
		AuthorID: user.ID,
		GroupID:  form.GroupID,
	})
	if err != nil {
		app.ServerError(w, err)
		return
	}
	app.infoLog.Printf("Post %d created by %q", post.ID, user.Username)

	if err := dataloader.Hydrate(r.Context(), post); err != nil {
		app.errorLog.Printf("Failed to load relations of post %d: %v", post.ID, err)
	} else {
		app.hub.Publish(feed.NewEvent(post))
	}

	http.Redirect(w, r, "/profile/"+url.PathEscape(user.Username)+"/", http.StatusFound)
}

func (app *App) postEdit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	post, ok := app.loadPost(w, r)
	if !ok {
		return
	}

	detailURL := "/posts/" + strconv.FormatUint(uint64(post.ID), 10) + "/"
	// Чужой пост редактировать нельзя, отправляем на просмотр
	if post.AuthorID != user.ID {
		http.Redirect(w, r, detailURL, http.StatusFound)
		return
	}

	form, ok := app.newPostForm(w, r)
	if !ok {
		return
	}

	if r.Method != http.MethodPost {
		form.Fill(post)
		app.renderPostForm(w, r, form, post)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}
	if !form.Bind(r.PostForm) {
		app.renderPostForm(w, r, form, post)
		return
	}

	if _, err := app.store.UpdatePost(r.Context(), post.ID, form.Text, form.GroupID); err != nil {
		app.storageError(w, err)
		return
	}
	app.infoLog.Printf("Post %d edited by %q", post.ID, user.Username)

	http.Redirect(w, r, detailURL, http.StatusFound)
}

// loadPost достает пост по {id} вместе с автором и группой. При ошибке ответ уже записан.
func (app *App) loadPost(w http.ResponseWriter, r *http.Request) (*domain.Post, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		app.NotFound(w)
		return nil, false
	}

	post, err := app.store.GetPostByID(r.Context(), uint(id))
	if err != nil {
		app.storageError(w, err)
		return nil, false
	}
	if err := dataloader.Hydrate(r.Context(), post); err != nil {
		app.ServerError(w, err)
		return nil, false
	}
	return post, true
}

func (app *App) newPostForm(w http.ResponseWriter, r *http.Request) (*forms.PostForm, bool) {
	groups, err := app.store.ListGroups(r.Context())
	if err != nil {
		app.ServerError(w, err)
		return nil, false
	}
	return forms.NewPostForm(groups), true
}

// renderPostForm показывает форму поста; post == nil означает создание.
// Ошибки валидации тоже отдаются с кодом 200.
func (app *App) renderPostForm(w http.ResponseWriter, r *http.Request, form *forms.PostForm, post *domain.Post) {
	data := &templateData{Title: "New post", Form: form}
	if post != nil {
		data.Title = "Edit post"
		data.Post = post
		data.IsEdit = true
	}
	app.renderHTML(w, r, http.StatusOK, "create_post.page.html", data)
}

// storageError отвечает 404 на отсутствующую запись и 500 на все остальное.
func (app *App) storageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		app.NotFound(w)
		return
	}
	app.ServerError(w, err)
}
