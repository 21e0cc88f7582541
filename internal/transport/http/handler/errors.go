package handler

import (
	"github.com/akmatoff/auth-api/internal/apierror"
	"github.com/gin-gonic/gin"
)

// writeError renders an ApiError as the structured JSON error body.
func writeError(c *gin.Context, apiErr *apierror.Error) {
	c.JSON(apiErr.Status(), apiErr.Response())
}
