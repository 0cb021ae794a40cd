package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"shop-api/logger"
	"shop-api/model"
	"shop-api/repository"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

const productListCacheKey = "products:all"
const productListCacheTTL = 10 * time.Minute

// ProductService handles catalog business logic with a cache-aside strategy
// on listings.
type ProductService struct {
	productRepo repository.IProductRepository
	cache       ICacheClient
}

func NewProductService(productRepo repository.IProductRepository, cache ICacheClient) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
	}
}

// ListProducts serves the catalog from Redis when possible and falls back to
// the database, repopulating the cache on a miss.
func (s *ProductService) ListProducts(ctx context.Context) ([]*model.Product, error) {
	cached, err := s.cache.Get(ctx, productListCacheKey).Result()
	if err == nil {
		var products []*model.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	products, err := s.productRepo.GetAllProducts(dbCtx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		s.cache.Set(ctx, productListCacheKey, data, productListCacheTTL)
	}

	return products, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id int) (*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct saves a new product and invalidates the catalog cache.
func (s *ProductService) CreateProduct(ctx context.Context, product *model.Product) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.productRepo.CreateProduct(dbCtx, product); err != nil {
		return err
	}

	s.cache.Del(ctx, productListCacheKey)
	logger.Log.WithField("product_id", product.ID).Info("Product created")
	return nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, product *model.Product) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.productRepo.UpdateProduct(dbCtx, product); err != nil {
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		return err
	}

	s.cache.Del(ctx, productListCacheKey)
	return nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if err := s.productRepo.DeleteProduct(dbCtx, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		return err
	}

	s.cache.Del(ctx, productListCacheKey)
	return nil
}
