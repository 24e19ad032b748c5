// Package validators plugs go-playground/validator into echo.
package validators

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator implements echo.Validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator around a fresh validator instance
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate checks i against its validate tags and reports failures as 400s
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Engine exposes the underlying validator so the store can share it.
func (cv *CustomValidator) Engine() *validator.Validate {
	return cv.validator
}
