package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/trendscout/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidProduct = errors.New("invalid product")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateProduct checks the fields the products table requires.
func validateProduct(p *model.ProductRecord) error {
	if p == nil {
		return fmt.Errorf("%w: nil product", ErrInvalidProduct)
	}
	if !p.HasIdentity() {
		return fmt.Errorf("%w: missing identity", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProduct)
	}
	if p.RetailPrice != nil && *p.RetailPrice < 0 {
		return fmt.Errorf("%w: negative retail price", ErrInvalidProduct)
	}
	if p.SupplierPrice != nil && *p.SupplierPrice < 0 {
		return fmt.Errorf("%w: negative supplier price", ErrInvalidProduct)
	}
	if p.Status != "" && !p.Status.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, model.ErrInvalidStatus)
	}
	return nil
}
