package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// currentUserID is nil when auth is disabled or the caller is anonymous
func currentUserID(c *gin.Context) *uint {
	value, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := value.(uint)
	if !ok {
		return nil
	}
	return &id
}

// resourceID prefers the path parameter and falls back to ?id=
func resourceID(c *gin.Context) string {
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		return id
	}
	return strings.TrimSpace(c.Query("id"))
}
