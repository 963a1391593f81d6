package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/catalog-service/internal/catalog"
)

func parsePositiveInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return v, nil
}

func parseBoolPtr(q url.Values, key string) (*bool, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &v, nil
}

func parsePricePtr(q url.Values, key string) (*float64, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a finite number", key)
	}
	if v < 0 {
		return nil, fmt.Errorf("%s cannot be negative", key)
	}
	return &v, nil
}

// parseListQuery turns list query parameters into a catalog filter. Absent
// parameters stay unset so the service applies its defaults.
func parseListQuery(q url.Values) (catalog.ListFilter, error) {
	var (
		f   catalog.ListFilter
		err error
	)
	if f.Page, err = parsePositiveInt(q, "page"); err != nil {
		return catalog.ListFilter{}, err
	}
	if f.Limit, err = parsePositiveInt(q, "limit"); err != nil {
		return catalog.ListFilter{}, err
	}
	if f.Limit > catalog.MaxLimit {
		return catalog.ListFilter{}, fmt.Errorf("limit cannot exceed %d", catalog.MaxLimit)
	}
	limit := f.Limit
	if limit == 0 {
		limit = catalog.DefaultLimit
	}
	if f.Page-1 > math.MaxInt/limit {
		return catalog.ListFilter{}, errors.New("page is out of range")
	}
	if f.IsActive, err = parseBoolPtr(q, "isActive"); err != nil {
		return catalog.ListFilter{}, err
	}
	if f.MinPrice, err = parsePricePtr(q, "minPrice"); err != nil {
		return catalog.ListFilter{}, err
	}
	if f.MaxPrice, err = parsePricePtr(q, "maxPrice"); err != nil {
		return catalog.ListFilter{}, err
	}
	return f, nil
}

func validProductID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
