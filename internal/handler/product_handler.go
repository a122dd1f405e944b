package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"marketplace/internal/access"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/logging"
	"marketplace/internal/model"
	"marketplace/internal/service"
)

// ProductHandler serves listing endpoints.
type ProductHandler struct {
	svc service.ProductService
	log logging.Logger
}

// NewProductHandler creates a new listing handler.
func NewProductHandler(svc service.ProductService, log logging.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// CreateProductRequest represents a new listing. Price and stock accept a
// JSON number or a numeric string.
type CreateProductRequest struct {
	Name     string      `json:"name" validate:"required"`
	Price    json.Number `json:"price" validate:"required" swaggertype:"number"`
	Category string      `json:"category" validate:"required"`
	Brand    string      `json:"brand"`
	Details  string      `json:"details"`
	Stock    json.Number `json:"stock" swaggertype:"integer"`
	Image    string      `json:"image"`
}

// UpdateProductRequest is a partial update; omitted fields are left as they are.
type UpdateProductRequest struct {
	Name     *string      `json:"name"`
	Price    *json.Number `json:"price" swaggertype:"number"`
	Category *string      `json:"category"`
	Brand    *string      `json:"brand"`
	Details  *string      `json:"details"`
	Stock    *json.Number `json:"stock" swaggertype:"integer"`
	Image    *string      `json:"image"`
}

func (r UpdateProductRequest) patch() (model.ProductPatch, error) {
	// Fields required at creation may be changed but not cleared.
	var cleared []string
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		cleared = append(cleared, "name")
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		cleared = append(cleared, "category")
	}
	if len(cleared) > 0 {
		return model.ProductPatch{}, apperrors.NewValidationError(cleared...)
	}

	patch := model.ProductPatch{
		Name:     r.Name,
		Category: r.Category,
		Brand:    r.Brand,
		Details:  r.Details,
		Image:    r.Image,
	}
	if r.Price != nil {
		price, err := service.ParsePrice(r.Price.String())
		if err != nil {
			return patch, err
		}
		patch.Price = &price
	}
	if r.Stock != nil {
		stock, err := service.ParseStock(r.Stock.String())
		if err != nil {
			return patch, err
		}
		patch.Stock = &stock
	}
	return patch, nil
}

// positiveQueryInt reads an optional positive integer query parameter.
// Absent yields 0.
func positiveQueryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.NewValidationError(name)
	}
	return n, nil
}

// ListProducts godoc
// @Summary Search listings
// @Description Paginated search. Facets cover every matching listing, not just the page.
// @Tags products
// @Produce json
// @Param name query string false "Case-insensitive name substring"
// @Param category query string false "Exact category"
// @Param brand query string false "Exact brand"
// @Param sort query string false "Price order" Enums(asc, desc)
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 6, max 100)"
// @Success 200 {object} model.ProductPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	page, err := positiveQueryInt(c, "page")
	if err != nil {
		return respondError(c, h.log, err)
	}
	limit, err := positiveQueryInt(c, "limit")
	if err != nil {
		return respondError(c, h.log, err)
	}

	result, err := h.svc.Search(c.Request().Context(), model.ProductFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetProduct godoc
// @Summary Get a listing
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /get-single-product/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, product)
}

// SellerProducts godoc
// @Summary List the caller's own listings
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /seller-products [get]
func (h *ProductHandler) SellerProducts(c echo.Context) error {
	products, err := h.svc.ListBySeller(c.Request().Context(), access.AccountFrom(c).Email)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, products)
}

// CreateProduct godoc
// @Summary Create a listing
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Listing"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	price, err := service.ParsePrice(req.Price.String())
	if err != nil {
		return respondError(c, h.log, err)
	}
	stock := 0
	if req.Stock != "" {
		if stock, err = service.ParseStock(req.Stock.String()); err != nil {
			return respondError(c, h.log, err)
		}
	}

	product, err := h.svc.Create(c.Request().Context(), access.AccountFrom(c).Email, service.ProductInput{
		Name:     req.Name,
		Price:    price,
		Category: req.Category,
		Brand:    req.Brand,
		Details:  req.Details,
		Stock:    stock,
		Image:    req.Image,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update an owned listing
// @Description Only supplied fields change. A listing owned by someone else reads as not found.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to change"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /update-product/{id} [patch]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, errMalformedBody)
	}
	patch, err := req.patch()
	if err != nil {
		return respondError(c, h.log, err)
	}

	product, err := h.svc.Update(c.Request().Context(), access.AccountFrom(c).Email, c.Param("id"), patch)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete an owned listing
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), access.AccountFrom(c).Email, c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}
