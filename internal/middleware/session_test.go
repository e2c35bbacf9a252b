package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/soruforum/soruforum/internal/auth"
	"github.com/soruforum/soruforum/internal/repo"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "avatar_file", "created_at"}).
		AddRow(1, "alice", "a@x.com", "hash", "default.jpg", time.Now())
}

func TestSession_ResolvesUserFromCookie(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, email, password_hash, avatar_file, created_at`).
		WithArgs(1).
		WillReturnRows(userRows())

	signer := auth.NewTokenSigner([]byte("secret"))
	token, err := signer.IssueSession(1, time.Hour)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	var gotUsername string
	handler := Session(signer, repo.NewUserRepo(db))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := CurrentUser(r.Context()); u != nil {
			gotUsername = u.Username
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUsername != "alice" {
		t.Errorf("current user: got %q, want alice", gotUsername)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSession_AnonymousOnBadToken(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	signer := auth.NewTokenSigner([]byte("secret"))
	handler := Session(signer, repo.NewUserRepo(db))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) != nil {
			t.Error("expected anonymous request")
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireUser_RedirectsAnonymous(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for anonymous requests")
	}))

	req := httptest.NewRequest("GET", "/soru/yeni", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/giris?next=%2Fsoru%2Fyeni" {
		t.Errorf("redirect location: got %q", loc)
	}
}
