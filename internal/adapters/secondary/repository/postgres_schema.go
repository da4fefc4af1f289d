package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crée les tables et index du module (idempotent, même esprit
// que la contrainte Neo4j du graphe). En prod on passerait par des migrations
// versionnées ; pour un monolithe auto-porté, le DDL au démarrage suffit.
//
// Les listes dénormalisées de la v1 (user.posts, post.likes, user.bookmarks,
// post.comments) sont remplacées par des projections relationnelles :
//   - la liste posts d'un user     = WHERE author_id
//   - les sets like/bookmark       = tables à clé composite (set atomique)
//   - la cascade de suppression    = FK ON DELETE CASCADE, persistée par construction
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			email           TEXT NOT NULL UNIQUE,
			username        TEXT NOT NULL UNIQUE,
			password_hash   TEXT NOT NULL,
			profile_picture TEXT NOT NULL DEFAULT '',
			bio             TEXT NOT NULL DEFAULT '',
			gender          TEXT,
			created_at      TIMESTAMPTZ NOT NULL,
			updated_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			caption    TEXT NOT NULL DEFAULT '',
			image_url  TEXT NOT NULL DEFAULT '',
			seq        BIGINT GENERATED ALWAYS AS IDENTITY,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_author ON posts (author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_recent ON posts (created_at DESC, seq ASC)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			body       TEXT NOT NULL,
			seq        BIGINT GENERATED ALWAYS AS IDENTITY,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id)`,
		`CREATE TABLE IF NOT EXISTS post_likes (
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (post_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, post_id)
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id         TEXT PRIMARY KEY,
			user_a     TEXT NOT NULL,
			user_b     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT conversations_pair_unique UNIQUE (user_a, user_b),
			CONSTRAINT conversations_pair_canonical CHECK (user_a < user_b)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id              TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			sender_id       TEXT NOT NULL,
			receiver_id     TEXT NOT NULL,
			body            TEXT NOT NULL,
			seq             BIGINT GENERATED ALWAYS AS IDENTITY,
			created_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages (conversation_id, created_at ASC, seq ASC)`,
	}

	for _, stmt := range ddl {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
