package repository

import (
	"context"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) List(ctx context.Context, includeNSFW bool) ([]model.Category, error) {
	query := `SELECT id, name, slug, description, is_nsfw, sort_order FROM categories`
	if !includeNSFW {
		query += ` WHERE is_nsfw=false`
	}
	query += ` ORDER BY sort_order, name`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsNSFW, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description, is_nsfw, sort_order)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, c.Name, c.Slug, c.Description, c.IsNSFW, c.SortOrder).Scan(&c.ID)
}
