package handler

import (
	"errors"
	"net/http"

	"timologio/internal/middleware"
	"timologio/internal/model"
	"timologio/internal/service"
	"timologio/pkg/pagination"
	"timologio/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	checkout := router.Group("/api/checkout")
	checkout.Use(middleware.RequireRole(model.RoleCheckout, model.RoleAdmin))
	{
		checkout.POST("/orders", h.CreateOrder)
	}

	admin := router.Group("/api/admin/orders")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.ListOrders)
		admin.GET("/:id", h.GetOrder)
	}
}

// CreateOrder places a checkout order. Invoice orders (type_of_order =
// timologio) are rejected until every required tax field is filled; all
// missing fields are reported at once.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.checkoutService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, response.Response{
				Success: false,
				Data:    gin.H{"message": verr.Error(), "messages": verr.Messages},
			})
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(order))
}

// ListOrders returns placed orders for the admin view, newest first
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to list orders"))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// GetOrder returns one order; empty billing fields are omitted from the JSON
// rather than rendered blank.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	order, err := h.checkoutService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, response.Error("Order not found"))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(order))
}
