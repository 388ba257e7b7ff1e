package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/server/http/dto"
	"github.com/printmart/printmart/internal/server/http/middleware"
)

// CurrentUserID extracts the authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentStoreID extracts the authenticated store identifier from context.
func CurrentStoreID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.StoreIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// statusForError maps domain errors to HTTP status codes shared by all
// handlers.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidID),
		errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrNotFound),
		errors.Is(err, domainErrors.ErrUnknownTxn):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrStatusConflict),
		errors.Is(err, domainErrors.ErrPaymentNotSettled),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func toCartItemResponse(item model.CartItem) dto.CartItemResponse {
	return dto.CartItemResponse{
		ID:          item.ID,
		FileKey:     item.FileKey,
		FileName:    item.FileName,
		FileSize:    item.FileSize,
		PageCount:   item.PageCount,
		CopiesCount: item.CopiesCount,
		PaperSize:   item.PaperSize,
		PrintType:   item.PrintType,
		PrintSides:  item.PrintSides,
		ColorPages:  item.ColorPages,
		StoreNote:   item.StoreNote,
		Price:       item.Price,
		AddedAt:     item.AddedAt,
	}
}

func toCartResponse(cart *model.Cart) dto.CartResponse {
	response := dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(cart.Items))}
	for _, item := range cart.Items {
		response.Items = append(response.Items, toCartItemResponse(item))
		response.Total += item.Price
	}
	return response
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.CartItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, toCartItemResponse(item))
	}
	return dto.OrderResponse{
		ID:                 order.ID,
		Number:             order.Number,
		StoreID:            order.StoreID,
		Items:              items,
		TotalPrice:         order.TotalPrice,
		PlatformFee:        order.PlatformFee,
		PaymentStatus:      string(order.PaymentStatus),
		OrderStatus:        string(order.OrderStatus),
		IsActive:           order.IsActive,
		IsViewedByMerchant: order.IsViewedByMerchant,
		CreatedAt:          order.CreatedAt,
		RejectedAt:         order.RejectedAt,
		DeliveredAt:        order.DeliveredAt,
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}
