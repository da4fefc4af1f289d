package domain

import (
	"errors"
	"fmt"
)

// --- TAXONOMIE DES ERREURS ---
// Quatre familles, toutes récupérables à la frontière : l'adapter HTTP les
// traduit en 404 / 400 / 409 via errors.Is. Rien ici ne doit faire crasher
// le process.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrValidation    = errors.New("invalid input")
	ErrSelfReference = errors.New("actor and target are the same user")
	ErrConflict      = errors.New("uniqueness conflict")
)

// Erreurs spécialisées : on wrap la famille pour garder errors.Is utilisable
// des deux côtés (errors.Is(err, ErrUserNotFound) ET errors.Is(err, ErrNotFound)).
var (
	ErrUserNotFound         = fmt.Errorf("user: %w", ErrNotFound)
	ErrPostNotFound         = fmt.Errorf("post: %w", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("conversation: %w", ErrNotFound)
	ErrEmailTaken           = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrUsernameTaken        = fmt.Errorf("username already registered: %w", ErrConflict)
)

// Erreurs du périmètre auth (frontière, pas coeur)
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
)
