package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/soruforum/soruforum/internal/models"
	"github.com/soruforum/soruforum/internal/repo"
)

func TestPostShow(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs(5).
		WillReturnRows(postRow(5, 1, "Go'da hata yönetimi nasıl yapılır?"))

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	h.Show(rr, withParam(httptest.NewRequest("GET", "/soru/5", nil), "id", "5"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Go&#39;da hata yönetimi nasıl yapılır?") {
		t.Error("body missing the question title")
	}
}

func TestPostShow_NotFound(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	h.Show(rr, withParam(httptest.NewRequest("GET", "/soru/42", nil), "id", "42"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
}

func TestPostShow_BadID(t *testing.T) {
	db, _ := mockDB(t)

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	h.Show(rr, withParam(httptest.NewRequest("GET", "/soru/abc", nil), "id", "abc"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
}

func TestPostCreate(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("Yeterince uzun bir başlık", "Yeterince uzun bir soru gövdesi", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body", "user_id", "created_at"}).
			AddRow(7, "Yeterince uzun bir başlık", "Yeterince uzun bir soru gövdesi", 1, time.Now()))

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	req := asUser(formRequest("POST", "/soru/yeni", url.Values{
		"title": {"Yeterince uzun bir başlık"},
		"body":  {"Yeterince uzun bir soru gövdesi"},
	}), &models.User{ID: 1, Username: "alice"})
	h.Create(rr, req)

	checkRedirect(t, rr, "/")
	if !flashSet(rr) {
		t.Error("expected a flash message")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostCreate_TooShort(t *testing.T) {
	db, _ := mockDB(t)

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	req := asUser(formRequest("POST", "/soru/yeni", url.Values{
		"title": {"kısa"},
		"body":  {"kısa"},
	}), &models.User{ID: 1, Username: "alice"})
	h.Create(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Başlık 10-150 karakter olmalıdır.") {
		t.Error("body missing the title length message")
	}
	if !strings.Contains(body, "Soru 10-10000 karakter olmalıdır.") {
		t.Error("body missing the body length message")
	}
}

func TestPostEdit_ForbiddenForOtherUser(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs(5).
		WillReturnRows(postRow(5, 1, "Başkasının sorusu burada"))

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	req := asUser(formRequest("POST", "/soru/5/duzenle", url.Values{
		"title": {"Değiştirilmiş uzun başlık"},
		"body":  {"Değiştirilmiş soru gövdesi"},
	}), &models.User{ID: 2, Username: "bob"})
	h.Edit(rr, withParam(req, "id", "5"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostEdit_ForbiddenForAnonymous(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs(5).
		WillReturnRows(postRow(5, 1, "Başkasının sorusu burada"))

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	req := formRequest("POST", "/soru/5/duzenle", url.Values{})
	h.Edit(rr, withParam(req, "id", "5"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rr.Code)
	}
}

func TestPostEdit_Owner(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs(5).
		WillReturnRows(postRow(5, 1, "Eski başlık yeterince uzun"))
	mock.ExpectQuery(`UPDATE posts`).
		WithArgs("Yeni başlık yeterince uzun", "Yeni gövde yeterince uzun", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body", "user_id", "created_at"}).
			AddRow(5, "Yeni başlık yeterince uzun", "Yeni gövde yeterince uzun", 1, time.Now()))

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	req := asUser(formRequest("POST", "/soru/5/duzenle", url.Values{
		"title": {"Yeni başlık yeterince uzun"},
		"body":  {"Yeni gövde yeterince uzun"},
	}), &models.User{ID: 1, Username: "alice"})
	h.Edit(rr, withParam(req, "id", "5"))

	checkRedirect(t, rr, "/soru/5")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostDelete_Owner(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs(5).
		WillReturnRows(postRow(5, 1, "Silinecek soru başlığı"))
	mock.ExpectExec(`DELETE FROM posts`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	req := asUser(httptest.NewRequest("POST", "/soru/5/sil", nil), &models.User{ID: 1, Username: "alice"})
	h.Delete(rr, withParam(req, "id", "5"))

	checkRedirect(t, rr, "/")
	if !flashSet(rr) {
		t.Error("expected a flash message")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostDelete_ForbiddenForOtherUser(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs(5).
		WillReturnRows(postRow(5, 1, "Başkasının sorusu burada"))

	h := &PostHandler{Posts: repo.NewPostRepo(db)}
	rr := httptest.NewRecorder()
	req := asUser(httptest.NewRequest("POST", "/soru/5/sil", nil), &models.User{ID: 2, Username: "bob"})
	h.Delete(rr, withParam(req, "id", "5"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rr.Code)
	}
}
