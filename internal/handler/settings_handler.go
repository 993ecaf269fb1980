package handler

import (
	"net/http"

	"timologio/internal/middleware"
	"timologio/internal/model"
	"timologio/internal/service"
	"timologio/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/admin/settings")
	settings.Use(middleware.RequireRole(model.RoleAdmin))
	{
		settings.GET("", h.GetSettings)
		settings.PUT("", h.UpdateSettings)
	}
}

// GetSettings returns the stored configuration with the AADE password masked
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to load settings"))
		return
	}

	c.JSON(http.StatusOK, response.Success(settings))
}

// UpdateSettings applies a partial settings update and audits it
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Invalid request payload: "+err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error("Failed to update settings"))
		return
	}

	c.JSON(http.StatusOK, response.Success(settings))
}
