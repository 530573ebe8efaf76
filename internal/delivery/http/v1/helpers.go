package v1

import (
	"errors"
	"strings"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindError turns a ShouldBind failure into a 400 with readable messages.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.Validation(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return apperror.Validation("Invalid request body")
}

// sessionUserID returns the caller's user id, "" when anonymous.
func sessionUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}
