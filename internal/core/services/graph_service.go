package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type graphService struct {
	graph     ports.GraphRepository
	users     ports.UserRepository
	publisher ports.EventPublisher
}

func NewGraphService(graph ports.GraphRepository, users ports.UserRepository, pub ports.EventPublisher) ports.GraphService {
	return &graphService{graph: graph, users: users, publisher: pub}
}

// ToggleFollow bascule l'arête actor->target. L'arête est stockée UNE fois
// dans le graphe : pas de paire de tableaux à maintenir en miroir, donc pas
// de divergence possible entre followers et following. Le check-and-flip se
// fait dans une seule transaction d'écriture du repo.
func (s *graphService) ToggleFollow(ctx context.Context, actorID, targetID string) (domain.ToggleState, error) {
	if actorID == targetID {
		return "", domain.ErrSelfReference
	}
	if _, err := s.users.GetByID(ctx, actorID); err != nil {
		return "", err
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return "", err
	}

	following, err := s.graph.ToggleRelation(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}

	// Side effect best-effort : un broker down ne casse pas le toggle.
	if err := s.publisher.PublishFollowToggled(ctx, actorID, targetID, following); err != nil {
		slog.Warn("⚠️ follow event publish failed", "actor_id", actorID, "target_id", targetID, "error", err)
	}

	if following {
		return domain.StateFollowed, nil
	}
	return domain.StateUnfollowed, nil
}

func (s *graphService) RelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	return s.graph.RelationStatus(ctx, actorID, targetID)
}

func (s *graphService) StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	return s.graph.StreamFollowers(ctx, userID, batchSize, yield)
}
