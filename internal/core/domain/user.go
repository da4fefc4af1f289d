package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User est l'agrégat identité. Les relations sociales (followers/following)
// ne vivent PAS ici : ce sont des arêtes du graphe, possédées par le
// GraphRepository. Idem pour la liste des posts, projection relationnelle
// du Content Store.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	ProfilePicture string // URL, l'upload binaire est hors périmètre
	Bio            string
	Gender         Gender
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile est la projection minimale exposée dans les feeds
// (équivalent du select "username profilePicture").
type Profile struct {
	ID             string
	Username       string
	ProfilePicture string
}

// NewUser crée une instance valide. C'est le SEUL chemin de création :
// ID et validation des invariants sont gérés ici, pas en DB.
func NewUser(email, username, passwordHash string, gender Gender) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(username)) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters: %w", ErrValidation)
	}
	if gender != "" && gender != GenderMale && gender != GenderFemale {
		return nil, fmt.Errorf("unknown gender %q: %w", gender, ErrValidation)
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Gender:       gender,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdateProfile applique les champs optionnels (nil = pas de changement).
func (u *User) UpdateProfile(bio *string, gender *Gender, profilePicture *string) error {
	if gender != nil && *gender != GenderMale && *gender != GenderFemale {
		return fmt.Errorf("unknown gender %q: %w", *gender, ErrValidation)
	}
	if bio != nil {
		u.Bio = strings.TrimSpace(*bio)
	}
	if gender != nil {
		u.Gender = *gender
	}
	if profilePicture != nil {
		u.ProfilePicture = *profilePicture
	}
	u.touch()
	return nil
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

// AsProfile renvoie la projection feed (jamais le hash du mot de passe).
func (u *User) AsProfile() Profile {
	return Profile{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fmt.Errorf("invalid email format: %w", ErrValidation)
	}
	return nil
}
