package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/soruforum/soruforum/internal/models"
)

// ==========================
// PostRepo
// ==========================
type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

// ==========================
// Create Post
// ==========================
func (r *PostRepo) Create(ctx context.Context, userID int, title, body string) (*models.Post, error) {
	query := `
		INSERT INTO posts (title, body, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, body, user_id, created_at
	`

	post := &models.Post{}
	err := r.DB.QueryRowContext(ctx, query, title, body, userID).
		Scan(&post.ID, &post.Title, &post.Body, &post.UserID, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ==========================
// Get By ID
// ==========================
func (r *PostRepo) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `
		SELECT p.id, p.title, p.body, p.user_id, u.username, u.avatar_file, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	post := &models.Post{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.Title, &post.Body, &post.UserID,
			&post.Author, &post.AuthorAvatar, &post.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ==========================
// Update Post
// ==========================
func (r *PostRepo) Update(ctx context.Context, id int, title, body string) (*models.Post, error) {
	query := `
		UPDATE posts
		SET title = $1, body = $2
		WHERE id = $3
		RETURNING id, title, body, user_id, created_at
	`

	post := &models.Post{}
	err := r.DB.QueryRowContext(ctx, query, title, body, id).
		Scan(&post.ID, &post.Title, &post.Body, &post.UserID, &post.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ==========================
// Delete Post
// ==========================
func (r *PostRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ==========================
// List Page (home feed)
// ==========================

// ListPage returns one feed page ordered by creation time descending.
// The id tiebreak keeps paging stable when timestamps collide.
func (r *PostRepo) ListPage(ctx context.Context, limit, offset int) ([]models.Post, error) {
	query := `
		SELECT p.id, p.title, p.body, p.user_id, u.username, u.avatar_file, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryPosts(ctx, query, limit, offset)
}

// ==========================
// List Page By User
// ==========================
func (r *PostRepo) ListPageByUser(ctx context.Context, userID, limit, offset int) ([]models.Post, error) {
	query := `
		SELECT p.id, p.title, p.body, p.user_id, u.username, u.avatar_file, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPosts(ctx, query, userID, limit, offset)
}

func (r *PostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.UserID,
			&p.Author, &p.AuthorAvatar, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ==========================
// Counts
// ==========================
func (r *PostRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

func (r *PostRepo) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
