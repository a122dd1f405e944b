package router

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"marketplace/internal/access"
	"marketplace/internal/handler"
	"marketplace/internal/logging"
	"marketplace/internal/model"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Products   *handler.ProductHandler
	Collection *handler.CollectionHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, guard *access.Guard, h Handlers, log logging.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/create-user", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.POST("/authentication", h.Auth.Login)
	api.GET("/products", h.Products.ListProducts)
	api.GET("/get-products", h.Products.ListProducts)
	api.GET("/get-single-product/:id", h.Products.GetProduct)

	// Any authenticated account
	api.POST("/logout", h.Auth.Logout, guard.Authenticate())
	api.GET("/get-user", h.Users.GetUser, guard.Protect(access.Unbanned())...)

	// Seller routes
	seller := guard.Protect(access.Role(model.RoleSeller))
	api.POST("/products", h.Products.CreateProduct, seller...)
	api.POST("/add-product", h.Products.CreateProduct, seller...)
	api.PATCH("/update-product/:id", h.Products.UpdateProduct, seller...)
	api.DELETE("/products/:id", h.Products.DeleteProduct, seller...)
	api.DELETE("/delete-product/:id", h.Products.DeleteProduct, seller...)
	api.GET("/seller-products", h.Products.SellerProducts, seller...)

	// Admin routes
	admin := guard.Protect(access.Role(model.RoleAdmin))
	api.GET("/users", h.Users.ListUsers, admin...)
	api.GET("/all-users", h.Users.ListUsers, admin...)
	api.PUT("/users/:id", h.Users.ChangeRole, admin...)
	api.PATCH("/users/:id", h.Users.ChangeRole, admin...)
	api.PUT("/change-role/:id", h.Users.ChangeRole, admin...)
	api.PATCH("/change-role/:id", h.Users.ChangeRole, admin...)
	api.PATCH("/ban-user/:id", h.Users.BanUser, admin...)

	// Buyer self-service routes
	buyer := guard.Protect(access.Role(model.RoleBuyer), access.Unbanned())
	api.GET("/get-wishlist", h.Collection.GetWishlist, buyer...)
	api.PATCH("/add-to-wishlist", h.Collection.AddToWishlist, buyer...)
	api.PATCH("/remove-from-wishlist", h.Collection.RemoveFromWishlist, buyer...)
	api.GET("/get-cart", h.Collection.GetCart, buyer...)
	api.PATCH("/add-cart", h.Collection.AddToCart, buyer...)
	api.PATCH("/remove-from-cart", h.Collection.RemoveFromCart, buyer...)

	log.Debug(context.Background(), "routes registered", "count", len(e.Routes()))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds a validator that reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
