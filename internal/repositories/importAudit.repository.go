package repositories

import (
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
	"attendtrack/internal/models"
	"attendtrack/internal/services"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	IMPORT_AUDIT_CACHE_EXPIRY = 24 * time.Hour
)

var ErrImportAuditNotFound = errors.New("import audit not found")

type ImportAuditRepository interface {
	Create(ctx context.Context, audit *models.ImportAudit) error
	GetByID(ctx context.Context, id int64) (*models.ImportAudit, error)
	List(ctx context.Context, offset, limit int) ([]*models.ImportAudit, int64, error)
	AddToCache(ctx context.Context, audit *models.ImportAudit) error
}

type importAuditRepository struct {
	db  database.DB
	log logger.Logger
}

func NewImportAudit(db database.DB) ImportAuditRepository {
	return &importAuditRepository{
		db:  db,
		log: logger.New("importAuditRepository"),
	}
}

func (r *importAuditRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func auditCacheKey(id int64) string {
	return fmt.Sprintf("import_audit:%d", id)
}

// Create inserts audit. It does not touch the cache: the surrounding
// transaction may still roll back.
func (r *importAuditRepository) Create(ctx context.Context, audit *models.ImportAudit) error {
	log := r.log.Function("Create")

	if audit.UploadedAt.IsZero() {
		audit.UploadedAt = time.Now().UTC()
	}

	if err := r.getDB(ctx).Create(audit).Error; err != nil {
		return log.Err("failed to create import audit", err, "filename", audit.Filename)
	}

	return nil
}

func (r *importAuditRepository) GetByID(ctx context.Context, id int64) (*models.ImportAudit, error) {
	log := r.log.Function("GetByID")

	var audit models.ImportAudit
	found, err := database.NewCacheBuilder(r.db.Cache.Audit, auditCacheKey(id)).
		WithContext(ctx).
		Get(&audit)
	if err != nil {
		log.Warn("failed to get import audit from cache", "auditID", id, "error", err)
	}
	if found {
		return &audit, nil
	}

	if err := r.getDB(ctx).Preload("Uploader").First(&audit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImportAuditNotFound
		}
		return nil, log.Err("failed to get import audit", err, "auditID", id)
	}

	if err := r.AddToCache(ctx, &audit); err != nil {
		log.Warn("failed to add import audit to cache", "auditID", id, "error", err)
	}

	return &audit, nil
}

// List returns one page of audits, newest first, with uploaders preloaded,
// together with the total number of audits.
func (r *importAuditRepository) List(ctx context.Context, offset, limit int) ([]*models.ImportAudit, int64, error) {
	log := r.log.Function("List")

	var total int64
	if err := r.getDB(ctx).Model(&models.ImportAudit{}).Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count import audits", err)
	}

	var audits []*models.ImportAudit
	if err := r.getDB(ctx).
		Preload("Uploader").
		Order("uploaded_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&audits).Error; err != nil {
		return nil, 0, log.Err("failed to list import audits", err, "offset", offset, "limit", limit)
	}

	return audits, total, nil
}

func (r *importAuditRepository) AddToCache(ctx context.Context, audit *models.ImportAudit) error {
	if err := database.NewCacheBuilder(r.db.Cache.Audit, auditCacheKey(audit.ID)).
		WithStruct(audit).
		WithTTL(IMPORT_AUDIT_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return r.log.Function("AddToCache").
			Err("failed to add import audit to cache", err, "auditID", audit.ID)
	}
	return nil
}
