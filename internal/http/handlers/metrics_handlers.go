package handlers

import (
	"net/http"
)

// Metrics godoc
// @Summary Catalog counts for the admin view
// @Tags metrics
// @Produce json
// @Success 200 {object} CatalogMetricsResult
// @Failure 500 {string} string "Internal error"
// @Router /metrics/catalog [get]
// @Security BearerAuth
func (h *ProductHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "fetch metrics")
		return
	}
	h.respond(w, http.StatusOK, CatalogMetricsResult{
		TotalProducts:    sum.TotalProducts,
		ActiveProducts:   sum.ActiveProducts,
		InactiveProducts: sum.InactiveProducts,
	})
}
