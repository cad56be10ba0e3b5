package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const selectUser = `
	SELECT id::text, email, password, subscription, token, avatar_url, verification_token, verify, created_at
	FROM users`

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, subscription, avatar_url, verification_token, verify)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, u.ID, u.Email, u.PasswordHash, string(u.Subscription), u.AvatarURL, u.VerificationToken, u.Verify).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PGRepository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	return r.findOne(ctx, selectUser+` WHERE verification_token = $1`, token)
}

func (r *PGRepository) SetToken(ctx context.Context, id string, token *string) error {
	return r.exec(ctx, `UPDATE users SET token = $2 WHERE id = $1`, id, token)
}

func (r *PGRepository) MarkVerified(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE users SET verify = TRUE, verification_token = NULL WHERE id = $1`, id)
}

func (r *PGRepository) SetAvatarURL(ctx context.Context, id, avatarURL string) error {
	return r.exec(ctx, `UPDATE users SET avatar_url = $2 WHERE id = $1`, id, avatarURL)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var (
		u   User
		sub string
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&sub,
		&u.Token,
		&u.AvatarURL,
		&u.VerificationToken,
		&u.Verify,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Subscription = Subscription(sub)
	return &u, nil
}

func (r *PGRepository) exec(ctx context.Context, query string, args ...any) error {
	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
