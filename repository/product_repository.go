package repository

import (
	"context"
	"database/sql"
	"shop-api/model"

	"github.com/lib/pq"
)

// IProductRepository defines the contract for product database operations.
// The *ForUpdate and stock methods operate inside a caller-owned transaction
// so order placement can lock product rows.
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id int) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id int) error
	GetProductForUpdate(tx *sql.Tx, id int) (*model.Product, error)
	DecrementStock(tx *sql.Tx, id, quantity int) error
}

type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	query := `INSERT INTO products (name, description, price, stock, categories, image_url)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`
	return r.DB.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Stock,
		pq.Array(product.Categories), product.ImageURL).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*model.Product, error) {
	product := &model.Product{}
	query := `SELECT id, name, description, price, stock, categories, image_url, created_at, updated_at
		FROM products WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock,
		pq.Array(&product.Categories), &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) GetAllProducts(ctx context.Context) ([]*model.Product, error) {
	query := `SELECT id, name, description, price, stock, categories, image_url, created_at, updated_at
		FROM products ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		product := &model.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
			&product.Stock, pq.Array(&product.Categories), &product.ImageURL,
			&product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET name = $1, description = $2, price = $3, stock = $4,
		categories = $5, image_url = $6, updated_at = now() WHERE id = $7 RETURNING updated_at`
	return r.DB.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Stock,
		pq.Array(product.Categories), product.ImageURL, product.ID).Scan(&product.UpdatedAt)
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetProductForUpdate locks the product row for the duration of the
// transaction so concurrent orders cannot oversell stock.
func (r *ProductRepository) GetProductForUpdate(tx *sql.Tx, id int) (*model.Product, error) {
	product := &model.Product{}
	query := `SELECT id, name, description, price, stock, categories, image_url, created_at, updated_at
		FROM products WHERE id = $1 FOR UPDATE`
	err := tx.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock,
		pq.Array(&product.Categories), &product.ImageURL, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) DecrementStock(tx *sql.Tx, id, quantity int) error {
	_, err := tx.Exec(`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2`, quantity, id)
	return err
}
