// Package request binds and validates JSON request bodies, converting every
// failure into the API's structured error shape.
package request

import (
	"errors"
	"regexp"
	"strings"

	"github.com/akmatoff/auth-api/internal/apierror"
	"github.com/akmatoff/auth-api/internal/validate"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// positionNoise matches the positional suffix some decoders append to their
// diagnostics; clients only get the core phrase.
var positionNoise = regexp.MustCompile(`\s+(at|near)\s+(line|offset|character)\s*\d+.*$`)

// BindJSON decodes the body into dst and validates it, shaping rule
// violations with the endpoint's formatter. Returns nil when dst is valid.
func BindJSON(c *gin.Context, dst any, f validate.Formatter) *apierror.Error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierror.BadRequest([]string{sanitizeDecodeError(err)})
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apierror.BadRequest(f.Messages(verrs))
		}
		return apierror.Internal(err.Error())
	}

	return nil
}

func sanitizeDecodeError(err error) string {
	msg := strings.TrimPrefix(err.Error(), "json: ")
	return positionNoise.ReplaceAllString(msg, "")
}
