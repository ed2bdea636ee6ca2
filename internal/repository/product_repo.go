package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, slug, description, short_description, is_nsfw, is_custom_order, is_published, low_stock_threshold, video_url, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
		&p.IsNSFW, &p.IsCustomOrder, &p.IsPublished, &p.LowStockThreshold,
		&p.VideoURL, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPublished returns published products (optionally filtered by category
// slug), with variants and images attached.
func (r *ProductRepository) ListPublished(ctx context.Context, filter model.CatalogFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_published=true`
	args := []interface{}{}

	if !filter.IncludeNSFW {
		query += ` AND is_nsfw=false`
	} else {
		query += ` AND is_nsfw=true`
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		query += ` AND id IN (
			SELECT pc.product_id FROM product_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE c.slug = $1
		)`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachVariantsAndImages(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBySlug returns one published product with variants and images, or
// (nil, nil) when no such product exists.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string, includeNSFW bool) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug=$1 AND is_published=true`
	if !includeNSFW {
		query += ` AND is_nsfw=false`
	}
	p, err := scanProduct(r.DB.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	list := []model.Product{*p}
	if err := r.attachVariantsAndImages(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List returns all products for the admin view, including unpublished ones.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachVariantsAndImages(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepository) attachVariantsAndImages(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	index := make(map[string]*model.Product, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
		index[products[i].ID] = &products[i]
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, sku, name, price, compare_at_price, stock_count, weight_grams, sort_order, options, created_at
		FROM product_variants
		WHERE product_id = ANY($1)
		ORDER BY sort_order, created_at
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var v model.ProductVariant
		var opts []byte
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Price, &v.CompareAtPrice, &v.StockCount, &v.WeightGrams, &v.SortOrder, &opts, &v.CreatedAt); err != nil {
			return err
		}
		if len(opts) > 0 {
			if err := json.Unmarshal(opts, &v.Options); err != nil {
				return err
			}
		}
		if p := index[v.ProductID]; p != nil {
			p.Variants = append(p.Variants, v)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	imgRows, err := r.DB.Query(ctx, `
		SELECT id, product_id, url, alt, sort_order, is_primary
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY sort_order
	`, ids)
	if err != nil {
		return err
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img model.ProductImage
		if err := imgRows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.SortOrder, &img.IsPrimary); err != nil {
			return err
		}
		if p := index[img.ProductID]; p != nil {
			p.Images = append(p.Images, img)
		}
	}
	return imgRows.Err()
}

// GetVariantsForCheckout batch-loads the joined variant+product rows the
// checkout orchestrator validates against. Unknown ids are simply absent
// from the result.
func (r *ProductRepository) GetVariantsForCheckout(ctx context.Context, variantIDs []string) ([]model.VariantDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT v.id, v.name, v.price, v.stock_count,
		       p.id, p.name, p.slug, p.is_nsfw, p.is_published,
		       (SELECT url FROM product_images i
		        WHERE i.product_id = p.id
		        ORDER BY i.is_primary DESC, i.sort_order
		        LIMIT 1)
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = ANY($1)
	`, variantIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.VariantDetail
	for rows.Next() {
		var d model.VariantDetail
		if err := rows.Scan(
			&d.VariantID, &d.VariantName, &d.Price, &d.StockCount,
			&d.ProductID, &d.ProductName, &d.ProductSlug, &d.IsNSFW, &d.IsPublished,
			&d.ProductImage,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateProduct inserts the product with its variants, images and category
// links in one transaction. Fills in generated ids.
func (r *ProductRepository) CreateProduct(ctx context.Context, p *model.Product, categoryIDs []string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
		INSERT INTO products (name, slug, description, short_description, is_nsfw, is_custom_order, is_published, low_stock_threshold, video_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Slug, p.Description, p.ShortDescription, p.IsNSFW, p.IsCustomOrder, p.IsPublished, p.LowStockThreshold, p.VideoURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}

	if err := insertVariantsTx(ctx, tx, p); err != nil {
		return err
	}
	if err := insertImagesTx(ctx, tx, p); err != nil {
		return err
	}
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			p.ID, cid); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateProduct replaces the product row and its variants/images/category
// links wholesale, the way the admin product form submits them.
func (r *ProductRepository) UpdateProduct(ctx context.Context, p *model.Product, categoryIDs []string) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET name=$2, slug=$3, description=$4, short_description=$5, is_nsfw=$6,
		    is_custom_order=$7, is_published=$8, low_stock_threshold=$9, video_url=$10,
		    updated_at=now()
		WHERE id=$1
	`, p.ID, p.Name, p.Slug, p.Description, p.ShortDescription, p.IsNSFW, p.IsCustomOrder, p.IsPublished, p.LowStockThreshold, p.VideoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id=$1`, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id=$1`, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM product_categories WHERE product_id=$1`, p.ID); err != nil {
		return err
	}

	if err := insertVariantsTx(ctx, tx, p); err != nil {
		return err
	}
	if err := insertImagesTx(ctx, tx, p); err != nil {
		return err
	}
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			p.ID, cid); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertVariantsTx(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	for i := range p.Variants {
		v := &p.Variants[i]
		v.ProductID = p.ID
		opts := v.Options
		if opts == nil {
			opts = map[string]string{}
		}
		optsJSON, err := json.Marshal(opts)
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO product_variants (product_id, sku, name, price, compare_at_price, stock_count, weight_grams, sort_order, options)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING id, created_at
		`, v.ProductID, v.SKU, v.Name, v.Price, v.CompareAtPrice, v.StockCount, v.WeightGrams, v.SortOrder, optsJSON,
		).Scan(&v.ID, &v.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func insertImagesTx(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	for i := range p.Images {
		img := &p.Images[i]
		img.ProductID = p.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO product_images (product_id, url, alt, sort_order, is_primary)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, img.ProductID, img.URL, img.Alt, img.SortOrder, img.IsPrimary,
		).Scan(&img.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("product not found")
	}
	return nil
}

// CatalogTotals backs the admin dashboard: product count and summed stock
// across all variants.
func (r *ProductRepository) CatalogTotals(ctx context.Context) (productCount, totalStock int, err error) {
	err = r.DB.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM products),
		       COALESCE((SELECT SUM(stock_count) FROM product_variants), 0)
	`).Scan(&productCount, &totalStock)
	return productCount, totalStock, err
}
