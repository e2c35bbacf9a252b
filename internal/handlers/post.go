package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soruforum/soruforum/internal/forms"
	"github.com/soruforum/soruforum/internal/metrics"
	"github.com/soruforum/soruforum/internal/middleware"
	"github.com/soruforum/soruforum/internal/models"
	"github.com/soruforum/soruforum/internal/repo"
)

const (
	msgPostCreated = "Sorunuz gönderilmiştir!"
	msgPostUpdated = "Sorunuz güncellenmiştir!"
	msgPostDeleted = "Sorunuz silinmiştir."
)

// ==========================
// Post Handler
// ==========================
type PostHandler struct {
	Posts *repo.PostRepo
}

type postFormData struct {
	Form   forms.PostForm
	Errors forms.Errors
	Legend string
	Action string
}

func postID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// loadOwned fetches the post and enforces the ownership rule: only the
// author may mutate it. Writes the 404/403 page and returns nil otherwise.
func (h *PostHandler) loadOwned(w http.ResponseWriter, r *http.Request) *models.Post {
	id, ok := postID(r)
	if !ok {
		NotFound(w, r)
		return nil
	}
	post, err := h.Posts.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		NotFound(w, r)
		return nil
	}
	if err != nil {
		ServerError(w, r)
		return nil
	}
	user := middleware.CurrentUser(r.Context())
	if user == nil || user.ID != post.UserID {
		Forbidden(w, r)
		return nil
	}
	return post
}

// ==========================
// Show
// ==========================
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		NotFound(w, r)
		return
	}
	post, err := h.Posts.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		NotFound(w, r)
		return
	}
	if err != nil {
		ServerError(w, r)
		return
	}
	render(w, r, http.StatusOK, "question.html", post.Title, post)
}

// ==========================
// Create
// ==========================
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "question_form.html", "Yeni Soru", postFormData{
		Legend: "Yeni Soru",
		Action: "/soru/yeni",
	})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ServerError(w, r)
		return
	}
	form := forms.PostForm{
		Title: strings.TrimSpace(r.FormValue("title")),
		Body:  strings.TrimSpace(r.FormValue("body")),
	}
	if errs := form.Validate(); !errs.OK() {
		render(w, r, http.StatusOK, "question_form.html", "Yeni Soru", postFormData{
			Form: form, Errors: errs, Legend: "Yeni Soru", Action: "/soru/yeni",
		})
		return
	}

	user := middleware.CurrentUser(r.Context())
	if _, err := h.Posts.Create(r.Context(), user.ID, form.Title, form.Body); err != nil {
		ServerError(w, r)
		return
	}
	metrics.PostsCreatedTotal.Inc()

	SetFlash(w, "success", msgPostCreated)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Edit
// ==========================
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwned(w, r)
	if post == nil {
		return
	}
	render(w, r, http.StatusOK, "question_form.html", "Düzenle", postFormData{
		Form:   forms.PostForm{Title: post.Title, Body: post.Body},
		Legend: "Güncelle",
		Action: fmt.Sprintf("/soru/%d/duzenle", post.ID),
	})
}

func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwned(w, r)
	if post == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		ServerError(w, r)
		return
	}
	form := forms.PostForm{
		Title: strings.TrimSpace(r.FormValue("title")),
		Body:  strings.TrimSpace(r.FormValue("body")),
	}
	if errs := form.Validate(); !errs.OK() {
		render(w, r, http.StatusOK, "question_form.html", "Düzenle", postFormData{
			Form: form, Errors: errs, Legend: "Güncelle",
			Action: fmt.Sprintf("/soru/%d/duzenle", post.ID),
		})
		return
	}

	if _, err := h.Posts.Update(r.Context(), post.ID, form.Title, form.Body); err != nil {
		ServerError(w, r)
		return
	}

	SetFlash(w, "success", msgPostUpdated)
	http.Redirect(w, r, fmt.Sprintf("/soru/%d", post.ID), http.StatusFound)
}

// ==========================
// Delete
// ==========================
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	post := h.loadOwned(w, r)
	if post == nil {
		return
	}
	if err := h.Posts.Delete(r.Context(), post.ID); err != nil {
		ServerError(w, r)
		return
	}
	metrics.PostsDeletedTotal.Inc()

	SetFlash(w, "success", msgPostDeleted)
	http.Redirect(w, r, "/", http.StatusFound)
}
