package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"

	"github.com/soruforum/soruforum/internal/middleware"
	"github.com/soruforum/soruforum/internal/models"
)

func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func userRow(id int, username, email, hash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "avatar_file", "created_at"}).
		AddRow(id, username, email, hash, "default.jpg", time.Now())
}

func postRow(id int, userID int, title string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "body", "user_id", "username", "avatar_file", "created_at"}).
		AddRow(id, title, "Soru gövdesi burada duruyor", userID, "alice", "default.jpg", time.Now())
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// asUser marks the request as coming from an authenticated session.
func asUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

// withParam injects a chi URL parameter without routing through a mux.
func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func checkRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Errorf("redirect: got %q, want %q", got, location)
	}
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func flashSet(rr *httptest.ResponseRecorder) bool {
	for _, c := range rr.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge > 0 {
			return true
		}
	}
	return false
}
