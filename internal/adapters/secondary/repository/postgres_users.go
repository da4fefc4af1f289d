package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
)

// sqlUser est le DTO interne : tampon entre la base et le domaine
// (gestion des NULLs sans polluer l'entité).
type sqlUser struct {
	ID             string
	Email          string
	Username       string
	PasswordHash   string
	ProfilePicture string
	Bio            string
	Gender         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const userColumns = `id, email, username, password_hash, profile_picture, bio, gender, created_at, updated_at`

func (r *PostgresUserRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, email, username, password_hash, profile_picture, bio, gender, created_at, updated_at)
		VALUES (@id, @email, @username, @password_hash, @profile_picture, @bio, @gender, @created_at, @updated_at)
	`
	args := pgx.NamedArgs{
		"id":              user.ID,
		"email":           user.Email,
		"username":        user.Username,
		"password_hash":   user.PasswordHash,
		"profile_picture": user.ProfilePicture,
		"bio":             user.Bio,
		"gender":          nullable(string(user.Gender)),
		"created_at":      user.CreatedAt,
		"updated_at":      user.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return r.handleError(err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, q, strings.ToLower(email)))
}

func (r *PostgresUserRepo) Update(ctx context.Context, user *domain.User) error {
	q := `
		UPDATE users
		SET email = @email, bio = @bio, gender = @gender, profile_picture = @profile_picture, updated_at = @updated_at
		WHERE id = @id
	`
	args := pgx.NamedArgs{
		"id":              user.ID,
		"email":           user.Email,
		"bio":             user.Bio,
		"gender":          nullable(string(user.Gender)),
		"profile_picture": user.ProfilePicture,
		"updated_at":      user.UpdatedAt,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return r.handleError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// GetProfiles hydrate en batch (WHERE id = ANY) les projections des feeds.
func (r *PostgresUserRepo) GetProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	profiles := make(map[string]domain.Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	q := `SELECT id, username, profile_picture FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.ProfilePicture); err != nil {
			return nil, err
		}
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}

func (r *PostgresUserRepo) ListSuggested(ctx context.Context, excludeID string) ([]*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id <> $1`
	rows, err := r.db.Query(ctx, q, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := r.scanUserRows(rows)
		if err != nil {
			return nil, err
		}
		// Le hash ne sort jamais de la couche repo pour cette projection.
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- HELPERS ---

func (r *PostgresUserRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u sqlUser
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.ProfilePicture, &u.Bio, &u.Gender, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound // traduction technique -> domaine
		}
		return nil, fmt.Errorf("db: get user: %w", err)
	}
	return r.toDomain(&u), nil
}

func (r *PostgresUserRepo) scanUserRows(rows pgx.Rows) (*domain.User, error) {
	var u sqlUser
	if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.ProfilePicture, &u.Bio, &u.Gender, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return r.toDomain(&u), nil
}

func (r *PostgresUserRepo) toDomain(u *sqlUser) *domain.User {
	gender := domain.Gender("")
	if u.Gender != nil {
		gender = domain.Gender(*u.Gender)
	}
	return &domain.User{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		Gender:         gender,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// handleError traduit les codes PostgreSQL en erreurs du domaine.
func (r *PostgresUserRepo) handleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return domain.ErrUsernameTaken
		}
		return domain.ErrEmailTaken
	}
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
