package repository

import (
	"context"
	"errors"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

const profileColumns = `id, email, full_name, avatar_url, role, nsfw_enabled, newsletter_subscribed, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	if err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.Role,
		&p.NSFWEnabled, &p.NewsletterSubscribed, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns (nil, nil) when the profile does not exist.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	p, err := scanProfile(r.DB.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// Update writes the account-editable fields; nil means "leave unchanged".
func (r *ProfileRepository) Update(ctx context.Context, id string, fullName *string, nsfwEnabled, newsletterSubscribed *bool) (*model.Profile, error) {
	p, err := scanProfile(r.DB.QueryRow(ctx, `
		UPDATE profiles
		SET full_name             = COALESCE($2, full_name),
		    nsfw_enabled          = COALESCE($3, nsfw_enabled),
		    newsletter_subscribed = COALESCE($4, newsletter_subscribed),
		    updated_at            = now()
		WHERE id=$1
		RETURNING `+profileColumns+`
	`, id, fullName, nsfwEnabled, newsletterSubscribed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns profiles for the admin customers view.
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]model.Profile, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}
