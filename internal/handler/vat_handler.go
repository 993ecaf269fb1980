package handler

import (
	"errors"
	"net/http"

	"timologio/internal/middleware"
	"timologio/internal/model"
	"timologio/internal/service"
	"timologio/internal/vat"
	"timologio/pkg/response"

	"github.com/gin-gonic/gin"
)

type VATHandler struct {
	lookupService service.LookupService
	authService   service.AuthService
}

func NewVATHandler(lookupService service.LookupService, authService service.AuthService) *VATHandler {
	return &VATHandler{lookupService: lookupService, authService: authService}
}

func (h *VATHandler) RegisterRoutes(router *gin.RouterGroup) {
	vatGroup := router.Group("/api/vat")
	{
		vatGroup.GET("/token", h.Token)
		vatGroup.POST("/lookup", middleware.RequireRole(model.RoleCheckout, model.RoleAdmin), h.Lookup)
	}
}

// Token issues the short-lived checkout token storefront pages attach to
// lookup requests. Unauthenticated by design: it only replaces the page nonce.
func (h *VATHandler) Token(c *gin.Context) {
	token, err := h.authService.CheckoutToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to issue token"))
		return
	}
	c.JSON(http.StatusOK, response.Success(token))
}

// Lookup resolves a VAT number to autofill details.
// @Summary      Look up VAT details
// @Description  Validates a VAT number against the configured provider (AADE or VIES) and returns billing autofill fields.
// @Tags         vat
// @Accept       json
// @Produce      json
// @Param        request  body  service.VATLookupRequest  true  "VAT lookup request"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Security     BearerAuth
// @Router       /api/vat/lookup [post]
func (h *VATHandler) Lookup(c *gin.Context) {
	var req service.VATLookupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	details, err := h.lookupService.FetchVATDetails(c.Request.Context(), req)
	if err != nil {
		h.renderLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(details))
}

// renderLookupError maps the lookup error taxonomy onto HTTP answers: input
// errors are the caller's fault (400), a provider verdict of "not valid" is a
// successful request with a negative outcome (200, success=false), and
// transport-level failures are temporary (503) — never reported as invalid.
func (h *VATHandler) renderLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVATNotProvided),
		errors.Is(err, service.ErrVATUnparsable),
		errors.Is(err, vat.ErrMissingArguments):
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	case errors.Is(err, service.ErrVATNotValid),
		errors.Is(err, service.ErrLookupDisabled):
		c.JSON(http.StatusOK, response.Error(err.Error()))
	case errors.Is(err, vat.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, response.Error(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error("Unable to fetch VAT details"))
	}
}
