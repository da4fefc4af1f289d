package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type postService struct {
	posts     ports.PostRepository
	users     ports.UserRepository
	publisher ports.EventPublisher
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, pub ports.EventPublisher) ports.PostService {
	return &postService{posts: posts, users: users, publisher: pub}
}

func (s *postService) CreatePost(ctx context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	if _, err := s.users.GetByID(ctx, cmd.AuthorID); err != nil {
		return nil, err
	}

	post, err := domain.NewPost(cmd.AuthorID, cmd.Caption, cmd.ImageURL)
	if err != nil {
		return nil, err
	}

	// 1. Sauvegarde DB (source of truth)
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	// 2. Publication événement (best effort)
	if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
		slog.Warn("⚠️ post.created publish failed", "post_id", post.ID, "error", err)
	}

	return post, nil
}

// DeletePost supprime le post, cascade ses commentaires et ses arêtes
// like/bookmark, et renvoie le post supprimé. Seul l'auteur peut supprimer.
func (s *postService) DeletePost(ctx context.Context, requesterID, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return nil, domain.ErrUnauthorized
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishPostDeleted(ctx, postID); err != nil {
		slog.Warn("⚠️ post.deleted publish failed", "post_id", postID, "error", err)
	}

	return post, nil
}
