package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/catalog-service/internal/catalog"
)

// Create godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. The slug is derived from the name.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 409 {string} string "Slug already exists"
// @Failure 500 {string} string "Internal error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateProduct(req); len(validationErrors) > 0 {
		h.respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := h.service.Create(r.Context(), catalog.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "create product")
		return
	}

	h.respond(w, http.StatusCreated, toProductResponse(created))
}

// List godoc
// @Summary List products
// @Description Returns one page of products, newest first.
// @Tags products
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size"
// @Param isActive query bool false "Filter by active flag"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Success 200 {object} ProductsPageResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.service.FindAll(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err, "list products")
		return
	}

	h.respond(w, http.StatusOK, toPageResult(page))
}

// Get godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validProductID(id) {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "fetch product")
		return
	}

	h.respond(w, http.StatusOK, toProductResponse(product))
}

// Update godoc
// @Summary Update a product
// @Description Applies the provided fields. Renaming a product regenerates its slug.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param product body UpdateProductRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Slug already exists"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [patch]
// @Security BearerAuth
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validProductID(id) {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req UpdateProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if validationErrors := validateProductUpdate(req); len(validationErrors) > 0 {
		h.respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	updated, err := h.service.Update(r.Context(), id, catalog.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "update product")
		return
	}

	h.respond(w, http.StatusOK, toProductResponse(updated))
}

// Delete godoc
// @Summary Delete a product
// @Description Soft-deletes the product. Its slug becomes available again.
// @Tags products
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [delete]
// @Security BearerAuth
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validProductID(id) {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
