package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/access"
	"marketplace/internal/logging"
	"marketplace/internal/model"
	"marketplace/internal/service"
)

// CollectionHandler serves a buyer's wishlist and cart.
type CollectionHandler struct {
	svc service.CollectionService
	log logging.Logger
}

// NewCollectionHandler creates a wishlist/cart handler.
func NewCollectionHandler(svc service.CollectionService, log logging.Logger) *CollectionHandler {
	return &CollectionHandler{svc: svc, log: log}
}

// CollectionItemRequest names the listing to add or remove.
type CollectionItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// CollectionChangeResponse reports the outcome of an add or remove.
type CollectionChangeResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"productId"`
	Changed   bool   `json:"changed"`
}

// items returns the handler serving the given collection's contents.
func (h *CollectionHandler) items(kind model.CollectionKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		products, err := h.svc.Items(c.Request().Context(), access.AccountFrom(c).Email, kind)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, products)
	}
}

// add returns the handler adding a listing to the given collection.
// Adding an id that is already present succeeds with changed=false.
func (h *CollectionHandler) add(kind model.CollectionKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req CollectionItemRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, h.log, err)
		}

		added, err := h.svc.Add(c.Request().Context(), access.AccountFrom(c).Email, kind, req.ProductID)
		if err != nil {
			return respondError(c, h.log, err)
		}

		msg := "added to " + string(kind)
		if !added {
			msg = "already in " + string(kind)
		}
		return c.JSON(http.StatusOK, CollectionChangeResponse{Message: msg, ProductID: req.ProductID, Changed: added})
	}
}

// remove returns the handler removing a listing from the given collection.
func (h *CollectionHandler) remove(kind model.CollectionKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req CollectionItemRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, h.log, err)
		}

		if err := h.svc.Remove(c.Request().Context(), access.AccountFrom(c).Email, kind, req.ProductID); err != nil {
			return respondError(c, h.log, err)
		}
		return c.JSON(http.StatusOK, CollectionChangeResponse{
			Message:   "removed from " + string(kind),
			ProductID: req.ProductID,
			Changed:   true,
		})
	}
}

// GetWishlist godoc
// @Summary Read the wishlist
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /get-wishlist [get]
func (h *CollectionHandler) GetWishlist(c echo.Context) error {
	return h.items(model.Wishlist)(c)
}

// AddToWishlist godoc
// @Summary Add a listing to the wishlist
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CollectionItemRequest true "Listing id"
// @Success 200 {object} CollectionChangeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /add-to-wishlist [patch]
func (h *CollectionHandler) AddToWishlist(c echo.Context) error {
	return h.add(model.Wishlist)(c)
}

// RemoveFromWishlist godoc
// @Summary Remove a listing from the wishlist
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CollectionItemRequest true "Listing id"
// @Success 200 {object} CollectionChangeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /remove-from-wishlist [patch]
func (h *CollectionHandler) RemoveFromWishlist(c echo.Context) error {
	return h.remove(model.Wishlist)(c)
}

// GetCart godoc
// @Summary Read the cart
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /get-cart [get]
func (h *CollectionHandler) GetCart(c echo.Context) error {
	return h.items(model.Cart)(c)
}

// AddToCart godoc
// @Summary Add a listing to the cart
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CollectionItemRequest true "Listing id"
// @Success 200 {object} CollectionChangeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /add-cart [patch]
func (h *CollectionHandler) AddToCart(c echo.Context) error {
	return h.add(model.Cart)(c)
}

// RemoveFromCart godoc
// @Summary Remove a listing from the cart
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CollectionItemRequest true "Listing id"
// @Success 200 {object} CollectionChangeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /remove-from-cart [patch]
func (h *CollectionHandler) RemoveFromCart(c echo.Context) error {
	return h.remove(model.Cart)(c)
}
