package posserver

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogapp "github.com/Apurer/go-pos-api-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-pos-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-pos-api-server/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/go-pos-api-server/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-pos-api-server/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-pos-api-server/internal/domains/orders/ports"
	usersapp "github.com/Apurer/go-pos-api-server/internal/domains/users/application"
	usersdomain "github.com/Apurer/go-pos-api-server/internal/domains/users/domain"
	usersports "github.com/Apurer/go-pos-api-server/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-pos-api-server/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondCatalogError translates catalog service failures into RFC 7807 responses.
func respondCatalogError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, catalogports.ErrInsufficientStock):
		respondProblem(c, apierrors.ErrInsufficientStock.WithDetail(err.Error()))
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, catalogapp.ErrInvalidQuantity),
		errors.Is(err, catalogapp.ErrInvalidOperation),
		errors.Is(err, catalogdomain.ErrEmptyName),
		errors.Is(err, catalogdomain.ErrInvalidCategory),
		errors.Is(err, catalogdomain.ErrNegativePrice),
		errors.Is(err, catalogdomain.ErrNegativeCost),
		errors.Is(err, catalogdomain.ErrNegativeStock):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		respondProblem(c, apierrors.ErrConflict.WithDetail("a product with the same SKU already exists"))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}

// respondOrderError translates sales service failures into RFC 7807 responses.
func respondOrderError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		respondProblem(c, apierrors.ErrIdempotencyConflict.WithDetail(err.Error()))
	case errors.Is(err, ordersapp.ErrInsufficientStock):
		respondProblem(c, apierrors.ErrInsufficientStock.WithDetail(err.Error()))
	case errors.Is(err, ordersapp.ErrProductNotFound),
		errors.Is(err, ordersapp.ErrProductInactive):
		respondProblem(c, apierrors.ErrUnprocessable.WithDetail(err.Error()))
	case errors.Is(err, ordersapp.ErrValidation),
		errors.Is(err, ordersdomain.ErrInvalidRefundAmount):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, ordersdomain.ErrAlreadyRefunded),
		errors.Is(err, ordersdomain.ErrInvalidState):
		respondProblem(c, apierrors.ErrConflict.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}

// respondUserError translates staff account failures into RFC 7807 responses.
func respondUserError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, usersports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, usersapp.ErrAuthentication):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
	case errors.Is(err, usersapp.ErrInvalidInput),
		errors.Is(err, usersdomain.ErrEmptyUsername),
		errors.Is(err, usersdomain.ErrEmptyPassword),
		errors.Is(err, usersdomain.ErrWeakPassword),
		errors.Is(err, usersdomain.ErrInvalidEmail),
		errors.Is(err, usersdomain.ErrInvalidRole):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		respondProblem(c, apierrors.ErrConflict.WithDetail("username already taken"))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
