package services

import (
	"context"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

type feedService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	likes    ports.LikeRepository
	users    ports.UserRepository
	graph    ports.GraphRepository
}

func NewFeedService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	likes ports.LikeRepository,
	users ports.UserRepository,
	graph ports.GraphRepository,
) ports.FeedService {
	return &feedService{posts: posts, comments: comments, likes: likes, users: users, graph: graph}
}

// GlobalFeed : tous les posts, plus récents d'abord. L'ordre vient du store
// (created_at DESC, tie-break par numéro d'insertion) : deux lectures du même
// état rendent la même séquence.
func (s *feedService) GlobalFeed(ctx context.Context) ([]*domain.FeedPost, error) {
	posts, err := s.posts.ListRecent(ctx)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, posts)
}

// FollowingFeed compose la timeline depuis le graphe : authorSet = following.
// Un authorSet vide donne une séquence vide, pas une erreur.
func (s *feedService) FollowingFeed(ctx context.Context, userID string) ([]*domain.FeedPost, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	authorSet, err := s.graph.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(authorSet) == 0 {
		return []*domain.FeedPost{}, nil
	}

	posts, err := s.posts.ListByAuthors(ctx, authorSet)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, posts)
}

// UserPosts : posts de l'auteur dans l'ordre naturel du store, aucun tri
// explicite (comportement de la source, contrairement aux deux feeds).
func (s *feedService) UserPosts(ctx context.Context, userID string) ([]*domain.FeedPost, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, posts)
}

// hydrate joint en batch les projections auteur, les likes et les
// commentaires (eux-mêmes projetés) : trois fetchs groupés, zéro N+1.
func (s *feedService) hydrate(ctx context.Context, posts []*domain.Post) ([]*domain.FeedPost, error) {
	if len(posts) == 0 {
		return []*domain.FeedPost{}, nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	commentsByPost, err := s.comments.ListForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	likesByPost, err := s.likes.ForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	// Auteurs des posts + auteurs des commentaires, dédupliqués.
	seen := make(map[string]bool)
	var authorIDs []string
	collect := func(id string) {
		if !seen[id] {
			seen[id] = true
			authorIDs = append(authorIDs, id)
		}
	}
	for _, p := range posts {
		collect(p.AuthorID)
	}
	for _, comments := range commentsByPost {
		for _, c := range comments {
			collect(c.AuthorID)
		}
	}

	profiles, err := s.users.GetProfiles(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	feed := make([]*domain.FeedPost, len(posts))
	for i, p := range posts {
		likes := likesByPost[p.ID]
		if likes == nil {
			likes = []string{}
		}
		fp := &domain.FeedPost{
			Post:   *p,
			Author: profiles[p.AuthorID],
			Likes:  likes,
		}
		for _, c := range commentsByPost[p.ID] {
			fp.Comments = append(fp.Comments, domain.FeedComment{
				Comment: c,
				Author:  profiles[c.AuthorID],
			})
		}
		feed[i] = fp
	}
	return feed, nil
}
