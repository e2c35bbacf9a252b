package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soruforum/soruforum/internal/middleware"
	"github.com/soruforum/soruforum/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string // success, danger, info
	Message  string
}

const flashCookie = "soruforum_flash"

// SetFlash stores a flash message in a short-lived cookie; the next render
// pops and displays it.
func SetFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}
	return &Flash{Category: category, Message: message}
}

// page is the root template context for every rendered page.
type page struct {
	Title string
	User  *models.User
	Flash *Flash
	Data  interface{}
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02.01.2006 15:04") },
}

func render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	layout, err := templatesFS.ReadFile("templates/layout.html")
	if err != nil {
		slog.Error("template read", "name", "layout.html", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		slog.Error("template read", "name", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	t, err := template.New("layout").Funcs(templateFuncs).Parse(string(layout))
	if err == nil {
		_, err = t.Parse(string(content))
	}
	if err != nil {
		slog.Error("template parse", "name", name, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	p := page{
		Title: title,
		User:  middleware.CurrentUser(r.Context()),
		Flash: popFlash(w, r),
		Data:  data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", p); err != nil {
		slog.Error("template execute", "name", name, "err", err)
	}
}

// ==========================
// Error pages
// ==========================

func NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, "404.html", "Sayfa Bulunamadı", nil)
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusForbidden, "403.html", "Yetkiniz Yok", nil)
}

func ServerError(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusInternalServerError, "500.html", "Bir Şeyler Ters Gitti", nil)
}
