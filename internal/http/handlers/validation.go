package handlers

import (
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "name", Description: "name is required"})
	}
	if p.Price < 0 {
		errs = append(errs, ProductValidationError{Field: "price", Description: "price cannot be negative"})
	}
	return errs
}

func validateProductUpdate(p UpdateProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "name", Description: "name cannot be blank"})
	}
	if p.Price != nil && *p.Price < 0 {
		errs = append(errs, ProductValidationError{Field: "price", Description: "price cannot be negative"})
	}
	return errs
}
