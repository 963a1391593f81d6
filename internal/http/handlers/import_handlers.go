package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/catalog-service/internal/catalog"
	mw "github.com/rogerio-castellano/catalog-service/internal/http/middleware"
	"github.com/sirupsen/logrus"
)

const maxImportSize = 10 << 20

type csvRow struct {
	Line        int
	Name        string
	Description string
	Price       string
	IsActive    string
}

// parseCSV reads a header row followed by product rows. Only the name and
// price columns are required; column order is free.
func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", required)
		}
	}

	column := func(record []string, name string) string {
		i, ok := index[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for line := 2; ; line++ { // header is row 1
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{
			Line:        line,
			Name:        column(record, "name"),
			Description: column(record, "description"),
			Price:       column(record, "price"),
			IsActive:    column(record, "is_active"),
		})
	}
	return rows, nil
}

func (r csvRow) toInput() (catalog.CreateProductInput, error) {
	if r.Name == "" {
		return catalog.CreateProductInput{}, errors.New("missing name")
	}
	price, err := strconv.ParseFloat(r.Price, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return catalog.CreateProductInput{}, errors.New("invalid price")
	}

	in := catalog.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
	}
	if r.IsActive != "" {
		active, err := strconv.ParseBool(r.IsActive)
		if err != nil {
			return catalog.CreateProductInput{}, errors.New("invalid is_active")
		}
		in.IsActive = &active
	}
	return in, nil
}

// Import godoc
// @Summary Import products via CSV
// @Description Columns: name, price, and optionally description and is_active.
// @Description Rows that fail are reported and do not stop the import.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
// @Security BearerAuth
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		rows      []catalog.ImportRow
		rowErrors []ImportRowError
	)
	for _, rec := range records {
		in, err := rec.toInput()
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rec.Line, Name: rec.Name, Error: err.Error()})
			continue
		}
		rows = append(rows, catalog.ImportRow{Row: rec.Line, Product: in})
	}

	res := h.service.Import(r.Context(), rows)
	for _, e := range res.Errors {
		rowErrors = append(rowErrors, ImportRowError{Row: e.Row, Name: e.Name, Error: e.Error})
	}
	slices.SortFunc(rowErrors, func(a, b ImportRowError) int { return a.Row - b.Row })
	if rowErrors == nil {
		rowErrors = []ImportRowError{}
	}

	h.log.WithFields(logrus.Fields{
		"imported": res.Imported,
		"failed":   len(rowErrors),
		"actor":    mw.SubjectFromContext(r.Context()),
	}).Info("product import finished")
	h.respond(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: res.Imported,
		Errors:                rowErrors,
	})
}
