package handlers

import (
	"net/http"

	"paneteria_admin/internal/services"

	"github.com/gin-gonic/gin"
)

// MenuHandler serves the public digital menu. No auth; rate limited.
type MenuHandler struct {
	menu services.MenuService
}

func NewMenuHandler(menu services.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

func (h *MenuHandler) Menu(c *gin.Context) {
	menu, err := h.menu.Menu(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": menu})
}
