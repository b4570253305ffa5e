package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/document"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentCategoryRepository implements document.CategoryRepository using GORM
type GormDocumentCategoryRepository struct {
	db *gorm.DB
}

// NewGormDocumentCategoryRepository creates a new GormDocumentCategoryRepository
func NewGormDocumentCategoryRepository(db *gorm.DB) *GormDocumentCategoryRepository {
	return &GormDocumentCategoryRepository{db: db}
}

// FindByID finds a category within a company
func (r *GormDocumentCategoryRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*document.Category, error) {
	m, err := firstInCompany[models.DocumentCategoryModel](ctx, r.db, companyID, id, "Document category")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists a company's categories by name
func (r *GormDocumentCategoryRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]document.Category, error) {
	var rows []models.DocumentCategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]document.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName checks for a category with the same name, case-insensitively
func (r *GormDocumentCategoryRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.DocumentCategoryModel{}).
		Scopes(companyScope(companyID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountDocuments counts the live documents filed under a category
func (r *GormDocumentCategoryRepository) CountDocuments(ctx context.Context, companyID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Scopes(companyScope(companyID)).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a category
func (r *GormDocumentCategoryRepository) Save(ctx context.Context, c *document.Category) error {
	return saveAggregate(ctx, r.db, &c.BaseAggregateRoot, models.DocumentCategoryModelFromDomain(c))
}

// Delete removes a category
func (r *GormDocumentCategoryRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.DocumentCategoryModel](ctx, r.db, companyID, id, "Document category")
}

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a live document within a company
func (r *GormDocumentRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*document.Document, error) {
	m, err := firstInCompany[models.DocumentModel](ctx, r.db, companyID, id, "Document")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists documents matching the filter
func (r *GormDocumentRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter document.Filter) ([]document.Document, int64, error) {
	rows, total, err := findPage[models.DocumentModel](ctx, r.db, filter.Filter,
		documentSort,
		func(q *gorm.DB) *gorm.DB {
			q = q.Scopes(companyScope(companyID), searchScope(filter.Search, "title", "file_name", "description"))
			if filter.CategoryID != nil {
				q = q.Where("category_id = ?", *filter.CategoryID)
			}
			if filter.Status != "" {
				q = q.Where("status = ?", filter.Status)
			}
			if tag := strings.ToLower(strings.TrimSpace(filter.Tag)); tag != "" {
				q = q.Where("tags LIKE ?", `%"`+tag+`"%`)
			}
			if filter.VisibleTo != nil {
				q = q.Scopes(r.visibleTo(*filter.VisibleTo))
			}
			return q
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]document.Document, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// visibleTo hides confidential documents unless the user uploaded them or
// holds an unexpired grant
func (r *GormDocumentRepository) visibleTo(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		granted := r.db.Model(&models.DocumentAccessModel{}).
			Select("document_id").
			Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, time.Now().UTC())
		return db.Where("(confidential = ? OR uploaded_by = ? OR id IN (?))", false, userID, granted)
	}
}

// Count counts a company's live documents
func (r *GormDocumentRepository) Count(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Scopes(companyScope(companyID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, d *document.Document) error {
	return saveAggregate(ctx, r.db, &d.BaseAggregateRoot, models.DocumentModelFromDomain(d))
}

// Delete soft-deletes a document; its row stays for the audit trail
func (r *GormDocumentRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteInCompany[models.DocumentModel](ctx, r.db, companyID, id, "Document")
}

// GormDocumentAccessRepository implements document.AccessRepository using GORM
type GormDocumentAccessRepository struct {
	db *gorm.DB
}

// NewGormDocumentAccessRepository creates a new GormDocumentAccessRepository
func NewGormDocumentAccessRepository(db *gorm.DB) *GormDocumentAccessRepository {
	return &GormDocumentAccessRepository{db: db}
}

// Find loads a user's grant on a document
func (r *GormDocumentAccessRepository) Find(ctx context.Context, companyID, documentID, userID uuid.UUID) (*document.Access, error) {
	var m models.DocumentAccessModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("Document access")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByDocument lists every grant on a document
func (r *GormDocumentAccessRepository) FindByDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]document.Access, error) {
	var rows []models.DocumentAccessModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]document.Access, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save grants access, replacing any existing grant of the same user
func (r *GormDocumentAccessRepository) Save(ctx context.Context, a *document.Access) error {
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"permission", "granted_by", "expires_at", "updated_at"}),
		}).
		Create(models.DocumentAccessModelFromDomain(a)).Error)
}

// Delete revokes a user's grant
func (r *GormDocumentAccessRepository) Delete(ctx context.Context, companyID, documentID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		Delete(&models.DocumentAccessModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Document access")
	}
	return nil
}

// GormDocumentActivityRepository implements document.ActivityRepository using GORM
type GormDocumentActivityRepository struct {
	db *gorm.DB
}

// NewGormDocumentActivityRepository creates a new GormDocumentActivityRepository
func NewGormDocumentActivityRepository(db *gorm.DB) *GormDocumentActivityRepository {
	return &GormDocumentActivityRepository{db: db}
}

// Append records an activity; entries are never updated
func (r *GormDocumentActivityRepository) Append(ctx context.Context, a *document.Activity) error {
	return r.db.WithContext(ctx).Create(models.DocumentActivityModelFromDomain(a)).Error
}

// FindByDocument pages through a document's activity, newest first
func (r *GormDocumentActivityRepository) FindByDocument(ctx context.Context, companyID, documentID uuid.UUID, filter shared.Filter) ([]document.Activity, int64, error) {
	rows, total, err := findPage[models.DocumentActivityModel](ctx, r.db, filter,
		activitySort,
		func(q *gorm.DB) *gorm.DB {
			return q.Scopes(companyScope(companyID)).Where("document_id = ?", documentID)
		})
	if err != nil {
		return nil, 0, err
	}
	out := make([]document.Activity, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

var (
	_ document.CategoryRepository = (*GormDocumentCategoryRepository)(nil)
	_ document.DocumentRepository = (*GormDocumentRepository)(nil)
	_ document.AccessRepository   = (*GormDocumentAccessRepository)(nil)
	_ document.ActivityRepository = (*GormDocumentActivityRepository)(nil)
)
