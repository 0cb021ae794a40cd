package handler

import (
	"encoding/json"
	"net/http"
	"shop-api/common"
	"shop-api/model"
	"shop-api/service"
)

// ProductRequest is the admin payload for creating or replacing a product.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Categories  []string `json:"categories"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
}

type ProductHandler struct {
	service *service.ProductService
}

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// ListProducts godoc
// @Summary      List the product catalog
// @Description  Public listing, served from cache when possible.
// @Tags         products
// @Produce      json
// @Success      200  {array}   model.Product
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) *common.AppError {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		return common.Unexpected("Could not retrieve products", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(products)
	return nil
}

// GetProduct godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200  {object}  model.Product
// @Failure      404  {object}  common.AppError
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		if err == service.ErrProductNotFound {
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		}
		return common.Unexpected("Could not retrieve product", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(product)
	return nil
}

// CreateProduct godoc
// @Summary      Add a product to the catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product body ProductRequest true "Product details"
// @Success      201  {object}  model.Product
// @Failure      403  {object}  common.AppError
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req ProductRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	product := productFromRequest(req)
	if err := h.service.CreateProduct(r.Context(), product); err != nil {
		return common.Unexpected("Could not create product", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
	return nil
}

// UpdateProduct godoc
// @Summary      Replace a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Param        product body ProductRequest true "Product details"
// @Success      200  {object}  model.Product
// @Failure      404  {object}  common.AppError
// @Router       /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	var req ProductRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	product := productFromRequest(req)
	product.ID = id
	if err := h.service.UpdateProduct(r.Context(), product); err != nil {
		if err == service.ErrProductNotFound {
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		}
		return common.Unexpected("Could not update product", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(product)
	return nil
}

// DeleteProduct godoc
// @Summary      Remove a product from the catalog
// @Tags         products
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Success      200  "OK"
// @Failure      404  {object}  common.AppError
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if err == service.ErrProductNotFound {
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), nil)
		}
		return common.Unexpected("Could not delete product", err)
	}

	w.WriteHeader(http.StatusOK)
	return nil
}

func productFromRequest(req ProductRequest) *model.Product {
	categories := req.Categories
	if categories == nil {
		categories = []string{}
	}
	return &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Categories:  categories,
		ImageURL:    req.ImageURL,
	}
}
