package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Les sets like/bookmark de la v1 étaient des tableaux Mongo relus puis
// réécrits : deux toggles concurrents pouvaient dupliquer l'arête. Ici la
// primitive est atomique côté store :
//   add if absent    = INSERT ... ON CONFLICT DO NOTHING
//   remove if present = DELETE (RowsAffected dit si l'arête existait)
// Aucun read-modify-write applicatif.

// PostgresLikeSet : owner = post, member = user.
type PostgresLikeSet struct {
	db *pgxpool.Pool
}

func NewPostgresLikeSet(pool *pgxpool.Pool) *PostgresLikeSet {
	return &PostgresLikeSet{db: pool}
}

func (s *PostgresLikeSet) Add(ctx context.Context, postID, userID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		postID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresLikeSet) Remove(ctx context.Context, postID, userID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
		postID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresLikeSet) Contains(ctx context.Context, postID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID).Scan(&exists)
	return exists, err
}

// ForPosts : hydratation batch des feeds. L'ordre des likes n'est pas
// contractuel, on garde l'ordre d'insertion pour la stabilité.
func (s *PostgresLikeSet) ForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	byPost := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1) ORDER BY created_at ASC`,
		postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, err
		}
		byPost[postID] = append(byPost[postID], userID)
	}
	return byPost, rows.Err()
}

// PostgresBookmarkSet : owner = user, member = post. Même primitive,
// indépendante de l'état du like.
type PostgresBookmarkSet struct {
	db *pgxpool.Pool
}

func NewPostgresBookmarkSet(pool *pgxpool.Pool) *PostgresBookmarkSet {
	return &PostgresBookmarkSet{db: pool}
}

func (s *PostgresBookmarkSet) Add(ctx context.Context, userID, postID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, postID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresBookmarkSet) Remove(ctx context.Context, userID, postID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`,
		userID, postID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresBookmarkSet) Contains(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)`,
		userID, postID).Scan(&exists)
	return exists, err
}
