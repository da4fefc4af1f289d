package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// --- PERSISTANCE : IDENTITY STORE ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error

	// GetProfiles hydrate en batch les projections minimales des feeds.
	GetProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, error)

	// ListSuggested renvoie tout le monde sauf excludeID (sans hash de mot de passe).
	ListSuggested(ctx context.Context, excludeID string) ([]*domain.User, error)
}

// --- PERSISTANCE : CONTENT STORE ---

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)

	// Delete supprime le post ET cascade ses commentaires, likes et bookmarks.
	// La liste posts de l'auteur étant une projection, elle est mise à jour
	// par construction.
	Delete(ctx context.Context, postID string) error

	// ListRecent : timeline globale, created_at DESC, tie-break seq (ordre
	// d'insertion stable entre deux lectures du même état).
	ListRecent(ctx context.Context) ([]*domain.Post, error)

	// ListByAuthors : même ordre que ListRecent, restreint à authorIDs.
	ListByAuthors(ctx context.Context, authorIDs []string) ([]*domain.Post, error)

	// ListByAuthor : ordre naturel du store, AUCUN tri explicite
	// (comportement userPosts de la source).
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
}

type CommentRepository interface {
	Save(ctx context.Context, comment *domain.Comment) error
	ListForPost(ctx context.Context, postID string) ([]domain.Comment, error)

	// ListForPosts hydrate en batch, commentaires les plus récents d'abord.
	ListForPosts(ctx context.Context, postIDs []string) (map[string][]domain.Comment, error)
}

// MembershipSet est la primitive set atomique du store : "add if absent" /
// "remove if present" sur un document, sans read-modify-write applicatif.
type MembershipSet interface {
	// Add renvoie false si member était déjà présent.
	Add(ctx context.Context, ownerID, memberID string) (bool, error)
	// Remove renvoie false si member était absent.
	Remove(ctx context.Context, ownerID, memberID string) (bool, error)
	Contains(ctx context.Context, ownerID, memberID string) (bool, error)
}

// LikeRepository : owner = post, member = user.
type LikeRepository interface {
	MembershipSet
	ForPosts(ctx context.Context, postIDs []string) (map[string][]string, error)
}

// BookmarkRepository : owner = user, member = post. Indépendant du like.
type BookmarkRepository interface {
	MembershipSet
}

// --- PERSISTANCE : GRAPHE SOCIAL ---

// GraphRepository possède l'arête FOLLOWS. Une arête = UNE relation stockée
// une seule fois : followers et following sont deux lectures de la même
// donnée, la symétrie est structurelle.
type GraphRepository interface {
	// EnsureSchema crée contraintes et index (idempotent).
	EnsureSchema(ctx context.Context) error

	// ToggleRelation bascule l'arête actor->target dans UNE transaction
	// d'écriture (check-and-flip atomique) et renvoie le nouvel état.
	ToggleRelation(ctx context.Context, actorID, targetID string) (following bool, err error)

	RelationStatus(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)

	// Following renvoie les ids suivis par userID (authorSet des feeds).
	Following(ctx context.Context, userID string) ([]string, error)

	// StreamFollowers livre les abonnés par paquets via yield (fan-out).
	StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}

// --- PERSISTANCE : CONVERSATION STORE ---

type ConversationRepository interface {
	// GetOrCreate résout la conversation canonique de la paire. En cas de
	// course à la création, le conflit d'unicité est absorbé par un re-fetch :
	// jamais deux conversations pour la même paire.
	GetOrCreate(ctx context.Context, userA, userB string) (*domain.Conversation, error)

	// Find renvoie domain.ErrConversationNotFound si la paire n'a pas encore échangé.
	Find(ctx context.Context, userA, userB string) (*domain.Conversation, error)

	// AppendMessage persiste le message et son appartenance ordonnée.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages : ordre d'envoi (created_at ASC, tie-break seq).
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
}

// --- MESSAGERIE (BROKER) ---

// EventPublisher publie les side effects best-effort. Un échec se logue,
// il ne fait jamais échouer l'opération métier.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID, email string) error
	PublishFollowToggled(ctx context.Context, actorID, targetID string, following bool) error
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
	PublishMessageCreated(ctx context.Context, msg *domain.Message) error
}

// --- SÉCURITÉ (FRONTIÈRE AUTH) ---

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) error
}

type TokenProvider interface {
	GenerateTokens(user *domain.User) (accessToken, refreshToken string, err error)
	// Validate vérifie la signature et renvoie le UserID (Subject).
	Validate(token string) (string, error)
}

// TokenRevoker matérialise le logout : un token révoqué reste invalide
// jusqu'à son expiration naturelle.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
