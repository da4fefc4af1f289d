package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Post appartient à son auteur. La liste posts de l'auteur et la liste
// comments du post sont des projections du store (author_id / post_id),
// jamais des tableaux dénormalisés à maintenir à la main.
type Post struct {
	ID       string
	AuthorID string
	Caption  string
	ImageURL string
	// Seq est le numéro d'insertion assigné par le store. Il sert de
	// tie-break stable quand deux posts partagent le même CreatedAt.
	Seq       int64
	CreatedAt time.Time
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Text      string
	Seq       int64
	CreatedAt time.Time
}

// NewPost valide l'invariant du produit : un post porte au moins une légende
// ou une image.
func NewPost(authorID, caption, imageURL string) (*Post, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" && imageURL == "" {
		return nil, fmt.Errorf("a post needs a caption or an image: %w", ErrValidation)
	}
	return &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Caption:   caption,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewComment refuse le texte vide. Un commentaire n'est jamais togglé :
// il est ajouté, puis supprimé uniquement par cascade avec son post.
func NewComment(authorID, postID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("a comment must have a text: %w", ErrValidation)
	}
	return &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}
