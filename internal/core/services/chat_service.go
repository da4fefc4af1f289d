package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type chatService struct {
	conversations ports.ConversationRepository
	users         ports.UserRepository
	publisher     ports.EventPublisher
}

func NewChatService(conversations ports.ConversationRepository, users ports.UserRepository, pub ports.EventPublisher) ports.ChatService {
	return &chatService{conversations: conversations, users: users, publisher: pub}
}

// SendMessage résout le fil canonique de la paire (création paresseuse au
// premier message) puis y ajoute le message. Deux premiers envois concurrents
// pour la même paire retombent sur la MÊME conversation : la course à la
// création est absorbée par le get-or-create du repo (contrainte d'unicité
// + re-fetch sur conflit).
func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID, text string) (*domain.Message, error) {
	if _, err := s.users.GetByID(ctx, senderID); err != nil {
		return nil, err
	}

	msg, err := domain.NewMessage(senderID, receiverID, text)
	if err != nil {
		return nil, err
	}

	conversation, err := s.conversations.GetOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	msg.ConversationID = conversation.ID
	if err := s.conversations.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishMessageCreated(ctx, msg); err != nil {
		slog.Warn("⚠️ message.created publish failed", "message_id", msg.ID, "error", err)
	}

	return msg, nil
}

// GetConversation renvoie les messages de la paire dans l'ordre d'envoi.
// Pas encore de conversation = séquence vide, pas une erreur.
func (s *chatService) GetConversation(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	conversation, err := s.conversations.Find(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Message{}, nil
		}
		return nil, err
	}
	return s.conversations.ListMessages(ctx, conversation.ID)
}
