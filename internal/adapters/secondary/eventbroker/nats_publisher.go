package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// NatsPublisher publie les side effects du coeur en best-effort.
// Les consommateurs (notifications, analytics) sont hors périmètre :
// le contrat se limite aux sujets et aux payloads ci-dessous.
type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// --- CONTRATS D'ÉVÉNEMENTS (implicites avec les futurs consommateurs) ---

type UserRegisteredEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type FollowToggledEvent struct {
	ActorID   string `json:"actor_id"`
	TargetID  string `json:"target_id"`
	Following bool   `json:"following"`
}

type PostCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageCreatedEvent struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *NatsPublisher) PublishUserRegistered(ctx context.Context, userID, email string) error {
	return p.publish(ctx, "user.registered", UserRegisteredEvent{
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
}

func (p *NatsPublisher) PublishFollowToggled(ctx context.Context, actorID, targetID string, following bool) error {
	subject := "user.followed"
	if !following {
		subject = "user.unfollowed"
	}
	return p.publish(ctx, subject, FollowToggledEvent{
		ActorID:   actorID,
		TargetID:  targetID,
		Following: following,
	})
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, "post.created", PostCreatedEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Caption:   post.Caption,
		CreatedAt: post.CreatedAt,
	})
}

func (p *NatsPublisher) PublishPostDeleted(ctx context.Context, postID string) error {
	return p.nc.Publish("post.deleted", []byte(postID))
}

func (p *NatsPublisher) PublishMessageCreated(ctx context.Context, msg *domain.Message) error {
	return p.publish(ctx, "message.created", MessageCreatedEvent{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		CreatedAt:      msg.CreatedAt,
	})
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du contexte de trace dans les headers NATS : le consommateur
	// pourra raccrocher son span à la requête d'origine.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	return p.nc.PublishMsg(msg)
}
