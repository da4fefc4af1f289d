package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

type PostgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(pool *pgxpool.Pool) *PostgresPostRepo {
	return &PostgresPostRepo{db: pool}
}

const postColumns = `id, author_id, caption, image_url, seq, created_at`

func (r *PostgresPostRepo) Save(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, author_id, caption, image_url, created_at)
		VALUES (@id, @author_id, @caption, @image_url, @created_at)
		RETURNING seq
	`
	args := pgx.NamedArgs{
		"id":         post.ID,
		"author_id":  post.AuthorID,
		"caption":    post.Caption,
		"image_url":  post.ImageURL,
		"created_at": post.CreatedAt,
	}
	// On récupère le numéro d'insertion assigné par le store (tie-break des feeds).
	return r.db.QueryRow(ctx, q, args).Scan(&post.Seq)
}

func (r *PostgresPostRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.scanPost(r.db.QueryRow(ctx, q, postID))
}

// Delete supprime le post ; commentaires, likes et bookmarks tombent par
// FK CASCADE dans la même transaction implicite.
func (r *PostgresPostRepo) Delete(ctx context.Context, postID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// ListRecent : l'ordre est CONTRACTUEL. created_at DESC, et à timestamp égal
// le numéro d'insertion ASC : la séquence est stable entre deux lectures.
func (r *PostgresPostRepo) ListRecent(ctx context.Context) ([]*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, seq ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRows(rows)
}

func (r *PostgresPostRepo) ListByAuthors(ctx context.Context, authorIDs []string) ([]*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE author_id = ANY($1) ORDER BY created_at DESC, seq ASC`
	rows, err := r.db.Query(ctx, q, authorIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRows(rows)
}

// ListByAuthor : pas d'ORDER BY, ordre naturel du store (contrat userPosts).
func (r *PostgresPostRepo) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE author_id = $1`
	rows, err := r.db.Query(ctx, q, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectRows(rows)
}

// --- HELPERS ---

func (r *PostgresPostRepo) scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Caption, &p.ImageURL, &p.Seq, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("db: get post: %w", err)
	}
	return &p, nil
}

func (r *PostgresPostRepo) collectRows(rows pgx.Rows) ([]*domain.Post, error) {
	var posts []*domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Caption, &p.ImageURL, &p.Seq, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

// --- COMMENTAIRES ---

type PostgresCommentRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCommentRepo(pool *pgxpool.Pool) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: pool}
}

func (r *PostgresCommentRepo) Save(ctx context.Context, comment *domain.Comment) error {
	q := `
		INSERT INTO comments (id, post_id, author_id, body, created_at)
		VALUES (@id, @post_id, @author_id, @body, @created_at)
		RETURNING seq
	`
	args := pgx.NamedArgs{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"body":       comment.Text,
		"created_at": comment.CreatedAt,
	}
	return r.db.QueryRow(ctx, q, args).Scan(&comment.Seq)
}

func (r *PostgresCommentRepo) ListForPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	q := `SELECT id, post_id, author_id, body, seq, created_at FROM comments WHERE post_id = $1 ORDER BY created_at DESC, seq ASC`
	rows, err := r.db.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListForPosts : hydratation batch des feeds, une seule requête SQL.
func (r *PostgresCommentRepo) ListForPosts(ctx context.Context, postIDs []string) (map[string][]domain.Comment, error) {
	byPost := make(map[string][]domain.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}

	q := `SELECT id, post_id, author_id, body, seq, created_at FROM comments WHERE post_id = ANY($1) ORDER BY created_at DESC, seq ASC`
	rows, err := r.db.Query(ctx, q, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments, err := collectComments(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	return byPost, nil
}

func collectComments(rows pgx.Rows) ([]domain.Comment, error) {
	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.Seq, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
