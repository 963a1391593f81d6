package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/catalog-service/internal/models"
	"gorm.io/gorm"
)

// productRecord is the gorm mapping of the products table. The partial
// unique index keeps slugs unique among rows that are not soft-deleted.
type productRecord struct {
	ID          string         `gorm:"primaryKey;size:36"`
	Name        string         `gorm:"size:255;not null"`
	Slug        string         `gorm:"size:255;not null;index:idx_products_live_slug,unique,where:deleted_at IS NULL"`
	Description string         `gorm:"size:2000"`
	Price       float64        `gorm:"not null"`
	IsActive    bool           `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"index"`
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (productRecord) TableName() string {
	return "products"
}

func (rec productRecord) toModel() models.Product {
	p := models.Product{
		ID:          rec.ID,
		Name:        rec.Name,
		Slug:        rec.Slug,
		Description: rec.Description,
		Price:       rec.Price,
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.DeletedAt.Valid {
		t := rec.DeletedAt.Time
		p.DeletedAt = &t
	}
	return p
}

func recordFromModel(p models.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// GormProductRepository is a ProductStore backed by gorm. It is used with
// the SQLite driver for embedded deployments and tests.
type GormProductRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormProductRepository creates the repository and migrates the products table.
func NewGormProductRepository(db *gorm.DB) (*GormProductRepository, error) {
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GormProductRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func translateGormError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicatedValueUnique
	}
	return err
}

func (r *GormProductRepository) FindByField(ctx context.Context, field ProductField, value string) (models.Product, error) {
	if !field.Valid() {
		return models.Product{}, fmt.Errorf("unsupported lookup field %q", field)
	}

	var rec productRecord
	err := r.db.WithContext(ctx).Where(string(field)+" = ?", value).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return rec.toModel(), nil
}

func productScope(q ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.IsActive != nil {
			db = db.Where("is_active = ?", *q.IsActive)
		}
		if q.MinPrice != nil {
			db = db.Where("price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			db = db.Where("price <= ?", *q.MaxPrice)
		}
		return db
	}
}

func (r *GormProductRepository) FindAndCount(ctx context.Context, q ProductQuery) ([]models.Product, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Scopes(productScope(q)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := r.db.WithContext(ctx).Scopes(productScope(q)).Order("created_at DESC").Order("id DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var recs []productRecord
	if err := tx.Find(&recs).Error; err != nil {
		return nil, 0, err
	}

	products := make([]models.Product, 0, len(recs))
	for _, rec := range recs {
		products = append(products, rec.toModel())
	}
	return products, int(total), nil
}

func (r *GormProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	now := r.now()
	rec := recordFromModel(p)
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Product{}, translateGormError(err)
	}
	return rec.toModel(), nil
}

func (r *GormProductRepository) Persist(ctx context.Context, p models.Product) (models.Product, error) {
	rec := recordFromModel(p)
	rec.UpdatedAt = r.now()

	res := r.db.WithContext(ctx).
		Model(&productRecord{ID: p.ID}).
		Select("name", "slug", "description", "price", "is_active", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		return models.Product{}, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.FindByField(ctx, FieldID, p.ID)
}

func (r *GormProductRepository) SoftDelete(ctx context.Context, p models.Product) error {
	res := r.db.WithContext(ctx).Delete(&productRecord{ID: p.ID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
