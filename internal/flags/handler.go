package flags

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the portal's feature flags from config.
type Handler struct {
	flags map[string]bool
}

func NewHandler(flags map[string]bool) *Handler {
	if flags == nil {
		flags = make(map[string]bool)
	}
	return &Handler{flags: flags}
}

// GET /flags
func (h *Handler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=300")
		c.JSON(http.StatusOK, gin.H{"flags": h.flags})
	}
}
