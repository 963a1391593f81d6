package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/catalog-service/internal/catalog"
	"github.com/rogerio-castellano/catalog-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ProductService is the catalog behavior the HTTP layer depends on.
type ProductService interface {
	Create(ctx context.Context, in catalog.CreateProductInput) (models.Product, error)
	FindAll(ctx context.Context, f catalog.ListFilter) (catalog.ProductPage, error)
	FindOne(ctx context.Context, id string) (models.Product, error)
	Update(ctx context.Context, id string, patch catalog.UpdateProductInput) (models.Product, error)
	Remove(ctx context.Context, id string) error
	Summary(ctx context.Context) (catalog.CatalogSummary, error)
	Import(ctx context.Context, rows []catalog.ImportRow) catalog.ImportResult
}

type ProductHandler struct {
	service ProductService
	log     *logrus.Logger
}

func NewProductHandler(service ProductService, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

// writeServiceError maps catalog errors to status codes. Anything unknown is
// logged and reported as a 500 without leaking details.
func (h *ProductHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrConflict):
		http.Error(w, "slug already exists", http.StatusConflict)
	default:
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("could not " + action)
		http.Error(w, "could not "+action, http.StatusInternalServerError)
	}
}

func (h *ProductHandler) respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		h.log.WithError(err).Warn("failed to write JSON response")
	}
}
