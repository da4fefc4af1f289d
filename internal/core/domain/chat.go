package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Conversation lie exactement une paire NON ordonnée de participants à une
// liste ordonnée de messages. La paire est canonicalisée (UserA < UserB)
// pour que la contrainte d'unicité du store porte sur une seule forme :
// il existe au plus UNE conversation par paire.
type Conversation struct {
	ID        string
	UserA     string // min(participants)
	UserB     string // max(participants)
	CreatedAt time.Time
}

// Message est immutable une fois créé ; son appartenance à la conversation
// est append-only, ordonnée par (CreatedAt, Seq).
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	ReceiverID     string
	Text           string
	Seq            int64
	CreatedAt      time.Time
}

// CanonicalPair normalise la paire pour le lookup (ordre indifférent).
func CanonicalPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// NewConversation construit la conversation canonique d'une paire.
func NewConversation(a, b string) *Conversation {
	userA, userB := CanonicalPair(a, b)
	return &Conversation{
		ID:        uuid.NewString(),
		UserA:     userA,
		UserB:     userB,
		CreatedAt: time.Now().UTC(),
	}
}

// Participants renvoie les deux membres de la paire.
func (c *Conversation) Participants() []string {
	return []string{c.UserA, c.UserB}
}

// Involves indique si userID fait partie de la conversation.
func (c *Conversation) Involves(userID string) bool {
	return c.UserA == userID || c.UserB == userID
}

func NewMessage(senderID, receiverID, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("a message should have a text: %w", ErrValidation)
	}
	return &Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
