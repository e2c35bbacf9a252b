package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/soruforum/soruforum/internal/repo"
)

func feedRows(ids ...int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "body", "user_id", "username", "avatar_file", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, "Sıradan bir soru başlığı", "Sıradan bir soru gövdesi", 1, "alice", "default.jpg", time.Now())
	}
	return rows
}

func TestHome_FirstPage(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`ORDER BY p.created_at DESC, p.id DESC`).
		WithArgs(10, 0).
		WillReturnRows(feedRows(25, 24, 23, 22, 21, 20, 19, 18, 17, 16))
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	h := &FeedHandler{Posts: repo.NewPostRepo(db), Users: repo.NewUserRepo(db)}
	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Sayfa 1 / 3") {
		t.Error("body missing pagination state")
	}
	if strings.Contains(body, "Önceki") {
		t.Error("first page must not link backwards")
	}
	if !strings.Contains(body, "?page=2") {
		t.Error("first page must link to page 2")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestHome_LastPage(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`ORDER BY p.created_at DESC, p.id DESC`).
		WithArgs(10, 20).
		WillReturnRows(feedRows(5, 4, 3, 2, 1))
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	h := &FeedHandler{Posts: repo.NewPostRepo(db), Users: repo.NewUserRepo(db)}
	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest("GET", "/?page=3", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Sayfa 3 / 3") {
		t.Error("body missing pagination state")
	}
	if strings.Contains(body, "Sonraki") {
		t.Error("last page must not link forwards")
	}
	if !strings.Contains(body, "?page=2") {
		t.Error("last page must link to page 2")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestHome_BadPageParamFallsBackToFirst(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`ORDER BY p.created_at DESC, p.id DESC`).
		WithArgs(10, 0).
		WillReturnRows(feedRows(1))
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	h := &FeedHandler{Posts: repo.NewPostRepo(db), Users: repo.NewUserRepo(db)}
	rr := httptest.NewRecorder()
	h.Home(rr, httptest.NewRequest("GET", "/?page=-4", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserPosts(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`WHERE username`).
		WithArgs("alice").
		WillReturnRows(userRow(1, "alice", "a@x.com", "hash"))
	mock.ExpectQuery(`WHERE p.user_id`).
		WithArgs(1, 10, 0).
		WillReturnRows(feedRows(3, 2, 1))
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	h := &FeedHandler{Posts: repo.NewPostRepo(db), Users: repo.NewUserRepo(db)}
	rr := httptest.NewRecorder()
	req := withParam(httptest.NewRequest("GET", "/kullanici/alice", nil), "username", "alice")
	h.UserPosts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "alice") {
		t.Error("body missing the author name")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserPosts_UnknownUser(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectQuery(`WHERE username`).
		WithArgs("hayalet").
		WillReturnError(sql.ErrNoRows)

	h := &FeedHandler{Posts: repo.NewPostRepo(db), Users: repo.NewUserRepo(db)}
	rr := httptest.NewRecorder()
	req := withParam(httptest.NewRequest("GET", "/kullanici/hayalet", nil), "username", "hayalet")
	h.UserPosts(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
}
