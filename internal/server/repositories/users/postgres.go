package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/dmitrijs2005/dailyquote/internal/dbx"
	"github.com/dmitrijs2005/dailyquote/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository on the users table.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository works on db or on a transaction.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create assigns an id when user has none and normalizes the email.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	// Emails are unique case-insensitively.
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `INSERT INTO users (id, email, password_hash, salt, full_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Salt, user.FullName).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const selectUser = `SELECT id, email, password_hash, salt, full_name, avatar_url, created_at FROM users`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.FullName, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// GetByEmail returns common.ErrNotFound for an unknown email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
}

// GetByID returns common.ErrNotFound for an unknown id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

// UpdateProfile leaves nil fields of upd unchanged.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	query := `UPDATE users
		SET full_name = COALESCE($2, full_name), avatar_url = COALESCE($3, avatar_url)
		WHERE id = $1
		RETURNING id, email, password_hash, salt, full_name, avatar_url, created_at`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id, nullString(upd.FullName), nullString(upd.AvatarURL)))
}

// UpdatePassword stores a new hash and salt.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, hash, salt []byte) error {
	query := `UPDATE users SET password_hash = $2, salt = $3 WHERE id = $1`
	if err := dbx.ExecOne(ctx, r.db, query, id, hash, salt); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetPreferences returns nil fields for settings never saved.
func (r *PostgresRepository) GetPreferences(ctx context.Context, id string) (*models.Preferences, error) {
	query := `SELECT theme, accent_color, font_scale FROM users WHERE id = $1`
	return r.scanPreferences(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdatePreferences(ctx context.Context, id string, prefs models.Preferences) (*models.Preferences, error) {
	query := `UPDATE users
		SET theme = COALESCE($2, theme),
		    accent_color = COALESCE($3, accent_color),
		    font_scale = COALESCE($4, font_scale)
		WHERE id = $1
		RETURNING theme, accent_color, font_scale`

	var scale sql.NullFloat64
	if prefs.FontScale != nil {
		scale = sql.NullFloat64{Float64: *prefs.FontScale, Valid: true}
	}
	return r.scanPreferences(r.db.QueryRowContext(ctx, query, id,
		nullString(prefs.Theme), nullString(prefs.AccentColor), scale))
}

// scanPreferences maps NULL columns to nil fields.
func (r *PostgresRepository) scanPreferences(row *sql.Row) (*models.Preferences, error) {
	var theme, accent sql.NullString
	var scale sql.NullFloat64
	if err := row.Scan(&theme, &accent, &scale); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p := &models.Preferences{}
	if theme.Valid {
		p.Theme = &theme.String
	}
	if accent.Valid {
		p.AccentColor = &accent.String
	}
	if scale.Valid {
		p.FontScale = &scale.Float64
	}
	return p, nil
}

// nullString binds nil as NULL, which COALESCE then skips.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
