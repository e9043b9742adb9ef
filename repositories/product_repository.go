package repositories

import (
	"context"
	"errors"
	"time"

	"ecofinds/models"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, title, COALESCE(description, ''), price, category, condition,
	COALESCE(image_url, ''), COALESCE(image_storage_id, ''), COALESCE(city, ''),
	owner_id, is_approved, created_at, updated_at`

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Condition,
		&p.ImageURL, &p.ImageStorageID, &p.City, &p.OwnerID, &p.IsApproved, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// Search runs the full-text title index, always restricted to approved
// listings, ordered by rank.
func (r *ProductRepository) Search(ctx context.Context, search, category string, limit int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_approved = true
		  AND title_search @@ websearch_to_tsquery('english', $1)`
	args := []interface{}{search}

	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}

	query += ` ORDER BY ts_rank(title_search, websearch_to_tsquery('english', $1)) DESC`

	if category != "" {
		query += ` LIMIT $3`
	} else {
		query += ` LIMIT $2`
	}
	args = append(args, limit)

	rows, err := models.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ListApproved is the non-search branch: by category when given, otherwise
// all approved listings, newest first.
func (r *ProductRepository) ListApproved(ctx context.Context, category string, limit int) ([]models.Product, error) {
	var (
		query string
		args  []interface{}
	)

	if category != "" {
		query = `SELECT ` + productColumns + ` FROM products
			WHERE category = $1 ORDER BY created_at DESC LIMIT $2`
		args = []interface{}{category, limit}
	} else {
		query = `SELECT ` + productColumns + ` FROM products
			WHERE is_approved = true ORDER BY created_at DESC LIMIT $1`
		args = []interface{}{limit}
	}

	rows, err := models.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// FindByID returns (nil, nil) for an unknown id so reads can distinguish
// not-found from failure.
func (r *ProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(models.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := models.DB.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products
		(title, description, price, category, condition, image_url, image_storage_id, city, owner_id, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	return models.DB.QueryRow(ctx, query,
		p.Title, p.Description, p.Price, p.Category, p.Condition,
		p.ImageURL, p.ImageStorageID, p.City, p.OwnerID, p.IsApproved, now, now,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `UPDATE products SET title = $1, description = $2, price = $3, category = $4,
		condition = $5, image_url = $6, image_storage_id = $7, city = $8, updated_at = $9
		WHERE id = $10`

	_, err := models.DB.Exec(ctx, query,
		p.Title, p.Description, p.Price, p.Category, p.Condition,
		p.ImageURL, p.ImageStorageID, p.City, time.Now(), p.ID,
	)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := models.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}
