package services

import (
	"context"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type interactionService struct {
	posts     ports.PostRepository
	comments  ports.CommentRepository
	likes     ports.LikeRepository
	bookmarks ports.BookmarkRepository
}

func NewInteractionService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	likes ports.LikeRepository,
	bookmarks ports.BookmarkRepository,
) ports.InteractionService {
	return &interactionService{posts: posts, comments: comments, likes: likes, bookmarks: bookmarks}
}

// toggleMembership est LE pattern commun des toggles d'engagement :
// check d'état puis action, sur la primitive set atomique du store.
// Renvoie true si member est présent APRÈS l'opération.
func toggleMembership(ctx context.Context, set ports.MembershipSet, ownerID, memberID string) (bool, error) {
	present, err := set.Contains(ctx, ownerID, memberID)
	if err != nil {
		return false, err
	}
	if present {
		if _, err := set.Remove(ctx, ownerID, memberID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := set.Add(ctx, ownerID, memberID); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleLike : toggle simple face (pas d'invariant de symétrie ici).
func (s *interactionService) ToggleLike(ctx context.Context, userID, postID string) (domain.ToggleState, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return "", err
	}
	liked, err := toggleMembership(ctx, s.likes, postID, userID)
	if err != nil {
		return "", err
	}
	if liked {
		return domain.StateLiked, nil
	}
	return domain.StateUnliked, nil
}

// ToggleBookmark est indépendant de l'état du like.
func (s *interactionService) ToggleBookmark(ctx context.Context, userID, postID string) (domain.ToggleState, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return "", err
	}
	bookmarked, err := toggleMembership(ctx, s.bookmarks, userID, postID)
	if err != nil {
		return "", err
	}
	if bookmarked {
		return domain.StateBookmarked, nil
	}
	return domain.StateUnbookmarked, nil
}

func (s *interactionService) CreateComment(ctx context.Context, userID, postID, text string) (*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	comment, err := domain.NewComment(userID, postID, text)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *interactionService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	return s.comments.ListForPost(ctx, postID)
}
