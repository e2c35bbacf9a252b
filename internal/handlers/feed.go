package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/soruforum/soruforum/internal/models"
	"github.com/soruforum/soruforum/internal/repo"
)

// feedPageSize is how many questions one feed page shows.
const feedPageSize = 10

// ==========================
// Feed Handler
// ==========================
type FeedHandler struct {
	Posts *repo.PostRepo
	Users *repo.UserRepo
}

type feedData struct {
	Posts      []models.Post
	Owner      *models.User // set for per-author feeds
	Page       int
	PrevPage   int // 0 when there is no previous page
	NextPage   int // 0 when there is no next page
	TotalPages int
}

func pageParam(r *http.Request) int {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	return page
}

func buildFeed(posts []models.Post, page, total int) feedData {
	totalPages := (total + feedPageSize - 1) / feedPageSize
	data := feedData{Posts: posts, Page: page, TotalPages: totalPages}
	if page > 1 {
		data.PrevPage = page - 1
	}
	if page < totalPages {
		data.NextPage = page + 1
	}
	return data
}

// ==========================
// Home feed
// ==========================
func (h *FeedHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	offset := (page - 1) * feedPageSize

	posts, err := h.Posts.ListPage(r.Context(), feedPageSize, offset)
	if err != nil {
		ServerError(w, r)
		return
	}
	total, err := h.Posts.Count(r.Context())
	if err != nil {
		ServerError(w, r)
		return
	}

	render(w, r, http.StatusOK, "index.html", "Anasayfa", buildFeed(posts, page, total))
}

// ==========================
// Per-author feed
// ==========================
func (h *FeedHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	owner, err := h.Users.GetByUsername(r.Context(), username)
	if errors.Is(err, repo.ErrNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		ServerError(w, r)
		return
	}

	page := pageParam(r)
	offset := (page - 1) * feedPageSize

	posts, err := h.Posts.ListPageByUser(r.Context(), owner.ID, feedPageSize, offset)
	if err != nil {
		ServerError(w, r)
		return
	}
	total, err := h.Posts.CountByUser(r.Context(), owner.ID)
	if err != nil {
		ServerError(w, r)
		return
	}

	data := buildFeed(posts, page, total)
	data.Owner = owner
	render(w, r, http.StatusOK, "user_posts.html", owner.Username, data)
}
