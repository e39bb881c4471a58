// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// CreatePersonRequest is the expected body for a POST /people request.
type CreatePersonRequest struct {
	Name    string `json:"name" validate:"required"`
	Group   string `json:"group" validate:"required"`
	Details string `json:"details"`
}

// UpdatePersonRequest is the expected body for a PUT /people/{personId} request.
type UpdatePersonRequest struct {
	Name    string `json:"name" validate:"required"`
	Group   string `json:"group" validate:"required"`
	Details string `json:"details"`
}

// BulkCreatePeopleRequest is the expected body for a POST /people/bulk request.
type BulkCreatePeopleRequest struct {
	People []CreatePersonRequest `json:"people" validate:"required,min=1,dive"`
}

// CreateLinkRequest is the expected body for a POST /links request.
type CreateLinkRequest struct {
	A        string `json:"a" validate:"required"`
	B        string `json:"b" validate:"required"`
	Strength int    `json:"strength" validate:"required,min=1,max=10"`
}

// UpdateLinkRequest is the expected body for a PUT /links request.
type UpdateLinkRequest struct {
	A        string `json:"a" validate:"required"`
	B        string `json:"b" validate:"required"`
	Strength int    `json:"strength" validate:"required,min=1,max=10"`
}

// DeleteLinkRequest identifies the unordered pair to unlink.
type DeleteLinkRequest struct {
	A string `json:"a" validate:"required"`
	B string `json:"b" validate:"required"`
}

// CreateCategoryRequest is the expected body for a POST /categories request.
type CreateCategoryRequest struct {
	Label string `json:"label" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateCategoryRequest is the expected body for a PUT /categories/{key} request.
type UpdateCategoryRequest struct {
	Label string `json:"label"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// SetCategoryColorRequest recolors a default category.
type SetCategoryColorRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}

// SetCenterRequest is the expected body for a POST /graph/center request.
type SetCenterRequest struct {
	PersonID string `json:"personId" validate:"required"`
}

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New()

// Validate runs struct-tag validation over a request body.
func Validate(req interface{}) error {
	return validate.Struct(req)
}

// Success sends a standardized successful HTTP response with optional JSON data.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error sends a standardized error response with consistent JSON format.
func Error(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
