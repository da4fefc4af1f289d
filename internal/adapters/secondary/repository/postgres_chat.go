package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

type PostgresChatRepo struct {
	db *pgxpool.Pool
}

func NewPostgresChatRepo(pool *pgxpool.Pool) *PostgresChatRepo {
	return &PostgresChatRepo{db: pool}
}

// GetOrCreate résout la conversation canonique de la paire. La paire est
// canonicalisée AVANT insertion (user_a < user_b, contrainte CHECK), donc
// la contrainte UNIQUE porte sur une seule forme. Deux premiers messages
// concurrents : un seul INSERT gagne, l'autre retombe sur le SELECT —
// jamais deux conversations pour la même paire.
func (r *PostgresChatRepo) GetOrCreate(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	conversation := domain.NewConversation(userA, userB)

	q := `
		INSERT INTO conversations (id, user_a, user_b, created_at)
		VALUES (@id, @user_a, @user_b, @created_at)
		ON CONFLICT ON CONSTRAINT conversations_pair_unique DO NOTHING
	`
	args := pgx.NamedArgs{
		"id":         conversation.ID,
		"user_a":     conversation.UserA,
		"user_b":     conversation.UserB,
		"created_at": conversation.CreatedAt,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("db: create conversation: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return conversation, nil
	}

	// Conflit d'unicité : la conversation existait (ou vient d'être créée
	// par un envoi concurrent). Re-fetch et on continue.
	return r.Find(ctx, userA, userB)
}

func (r *PostgresChatRepo) Find(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	a, b := domain.CanonicalPair(userA, userB)

	var c domain.Conversation
	err := r.db.QueryRow(ctx,
		`SELECT id, user_a, user_b, created_at FROM conversations WHERE user_a = $1 AND user_b = $2`,
		a, b).Scan(&c.ID, &c.UserA, &c.UserB, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("db: find conversation: %w", err)
	}
	return &c, nil
}

// AppendMessage persiste le message ; l'appartenance ordonnée au fil est
// portée par (created_at, seq), le message lui-même n'est jamais réécrit.
func (r *PostgresChatRepo) AppendMessage(ctx context.Context, msg *domain.Message) error {
	q := `
		INSERT INTO messages (id, conversation_id, sender_id, receiver_id, body, created_at)
		VALUES (@id, @conversation_id, @sender_id, @receiver_id, @body, @created_at)
		RETURNING seq
	`
	args := pgx.NamedArgs{
		"id":              msg.ID,
		"conversation_id": msg.ConversationID,
		"sender_id":       msg.SenderID,
		"receiver_id":     msg.ReceiverID,
		"body":            msg.Text,
		"created_at":      msg.CreatedAt,
	}
	return r.db.QueryRow(ctx, q, args).Scan(&msg.Seq)
}

func (r *PostgresChatRepo) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	q := `
		SELECT id, conversation_id, sender_id, receiver_id, body, seq, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, seq ASC
	`
	rows, err := r.db.Query(ctx, q, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Seq, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
