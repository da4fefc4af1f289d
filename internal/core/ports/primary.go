package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---
// Des structs plutôt que des listes de paramètres : on peut ajouter des
// champs optionnels sans casser les signatures.

type RegisterCmd struct {
	Email    string
	Password string
	Username string
	Gender   domain.Gender
}

type LoginCmd struct {
	Email    string
	Password string
}

type UpdateProfileCmd struct {
	UserID         string
	Bio            *string // nil = pas de changement
	Gender         *domain.Gender
	ProfilePicture *string
}

type CreatePostCmd struct {
	AuthorID string
	Caption  string
	ImageURL string
}

// --- OUTPUTS ---

type AuthResponse struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// --- PORTS PRIMAIRES (Driving) ---
// L'API que l'hexagone expose aux adapters entrants (HTTP ici).

// IdentityService couvre la frontière auth + profil. Le coeur social ne voit
// jamais de session : il reçoit un actor id déjà authentifié.
type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (string, error)

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCmd) (*domain.User, error)
	SuggestedUsers(ctx context.Context, userID string) ([]*domain.User, error)
}

// GraphService est le moteur follow/unfollow (toggle strict, PAS idempotent :
// deux appels successifs reviennent à l'état initial).
type GraphService interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (domain.ToggleState, error)
	RelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)
	StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}

// InteractionService regroupe les toggles d'engagement et les commentaires.
type InteractionService interface {
	ToggleLike(ctx context.Context, userID, postID string) (domain.ToggleState, error)
	ToggleBookmark(ctx context.Context, userID, postID string) (domain.ToggleState, error)
	CreateComment(ctx context.Context, userID, postID, text string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
}

type PostService interface {
	CreatePost(ctx context.Context, cmd CreatePostCmd) (*domain.Post, error)
	// DeletePost exige que requesterID soit l'auteur et renvoie le post supprimé.
	DeletePost(ctx context.Context, requesterID, postID string) (*domain.Post, error)
}

// FeedService compose les timelines depuis le graphe et le content store.
type FeedService interface {
	GlobalFeed(ctx context.Context) ([]*domain.FeedPost, error)
	FollowingFeed(ctx context.Context, userID string) ([]*domain.FeedPost, error)
	UserPosts(ctx context.Context, userID string) ([]*domain.FeedPost, error)
}

// ChatService résout le fil canonique d'une paire et y ajoute des messages.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID, text string) (*domain.Message, error)
	GetConversation(ctx context.Context, userA, userB string) ([]domain.Message, error)
}
