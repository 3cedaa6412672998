package postgres

import (
	"catalog/app/product"
	"catalog/domain"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository serves both the product and the category repository
// interfaces over gorm.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func orderCategories(db *gorm.DB) *gorm.DB {
	return db.Order("categories.id")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func (r *CatalogRepository) GetProducts(ctx context.Context, filter product.ListFilter, limit, offset int) ([]domain.Product, int64, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Product{})
		if filter.CategoryID != nil {
			q = q.Joins("JOIN category_product ON category_product.product_id = products.id").
				Where("category_product.category_id = ?", *filter.CategoryID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := query()
	if filter.SortBy != "" {
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "products", Name: filter.SortBy},
			Desc:   filter.SortOrder == "desc",
		})
	}

	products := make([]domain.Product, 0)
	err := q.Order("products.id").
		Preload("Categories", orderCategories).
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SearchProducts matches query as a literal, case-insensitive substring of
// name or description. Categories are not loaded.
func (r *CatalogRepository) SearchProducts(ctx context.Context, query string, limit, offset int) ([]domain.Product, int64, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"

	search := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Product{}).Where(
			`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(products.description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}

	var total int64
	if err := search().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	products := make([]domain.Product, 0)
	err := search().Order("products.id").Limit(limit).Offset(offset).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id uint, withCategories bool) (domain.Product, error) {
	var p domain.Product

	q := r.db.WithContext(ctx)
	if withCategories {
		q = q.Preload("Categories", orderCategories)
	}

	if err := q.First(&p, id).Error; err != nil {
		return domain.Product{}, notFound(err)
	}

	return p, nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).
		Model(p).
		Select("name", "description", "price", "stock", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteProduct soft deletes the product. Links to categories stay in place.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) GetProductCategoryIDs(ctx context.Context, productID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.CategoryProduct{}).
		Where("product_id = ?", productID).
		Order("category_id").
		Pluck("category_id", &ids).Error
	return ids, err
}

func (r *CatalogRepository) AttachCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	rows := make([]domain.CategoryProduct, len(categoryIDs))
	for i, id := range categoryIDs {
		rows[i] = domain.CategoryProduct{ProductID: productID, CategoryID: id}
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *CatalogRepository) DetachCategories(ctx context.Context, productID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Where("product_id = ? AND category_id IN ?", productID, categoryIDs).
		Delete(&domain.CategoryProduct{}).Error
}

func (r *CatalogRepository) ExistingCategoryIDs(ctx context.Context, categoryIDs []uint) ([]uint, error) {
	ids := make([]uint, 0, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return ids, nil
	}

	err := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id IN ?", categoryIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *CatalogRepository) GetCategories(ctx context.Context, limit, offset int) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&categories).Error
	return categories, err
}

func (r *CatalogRepository) CountCategories(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Count(&total).Error
	return total, err
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id uint) (domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return domain.Category{}, notFound(err)
	}
	return c, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res := r.db.WithContext(ctx).
		Model(c).
		Select("name", "description", "updated_at").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category and every product link to it. Callers
// run it inside a transaction.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return r.db.WithContext(ctx).
		Where("category_id = ?", id).
		Delete(&domain.CategoryProduct{}).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
