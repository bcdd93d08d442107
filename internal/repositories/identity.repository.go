package repositories

import (
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
	"attendtrack/internal/models"
	"attendtrack/internal/services"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const importedUsernamePrefix = "emp_"

var ErrIdentityNotFound = errors.New("identity not found")

type IdentityRepository interface {
	GetByID(ctx context.Context, id string) (*models.Identity, error)
	GetByUsername(ctx context.Context, username string) (*models.Identity, error)
	Create(ctx context.Context, identity *models.Identity) error
	ListEmployees(ctx context.Context) ([]models.DirectoryEntry, error)
	CreateImported(ctx context.Context, displayName string) (string, bool, error)
	CountByOrigin(ctx context.Context, origin models.Origin) (int64, error)
}

type identityRepository struct {
	db  database.DB
	log logger.Logger
}

func NewIdentity(db database.DB) IdentityRepository {
	return &identityRepository{
		db:  db,
		log: logger.New("identityRepository"),
	}
}

func (r *identityRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	log := r.log.Function("GetByID")

	var identity models.Identity
	if err := r.getDB(ctx).First(&identity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, log.Err("failed to get identity by id", err, "id", id)
	}

	return &identity, nil
}

func (r *identityRepository) GetByUsername(ctx context.Context, username string) (*models.Identity, error) {
	log := r.log.Function("GetByUsername")

	var identity models.Identity
	if err := r.getDB(ctx).First(&identity, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, log.Err("failed to get identity by username", err, "username", username)
	}

	return &identity, nil
}

func (r *identityRepository) Create(ctx context.Context, identity *models.Identity) error {
	log := r.log.Function("Create")

	if identity.Origin == "" {
		identity.Origin = models.OriginProvisioned
	}

	if err := r.getDB(ctx).Create(identity).Error; err != nil {
		return log.Err("failed to create identity", err, "username", identity.Username)
	}

	return nil
}

// ListEmployees returns id and display name of every employee, in storage order.
func (r *identityRepository) ListEmployees(ctx context.Context) ([]models.DirectoryEntry, error) {
	log := r.log.Function("ListEmployees")

	var entries []models.DirectoryEntry
	if err := r.getDB(ctx).
		Model(&models.Identity{}).
		Select("id", "display_name").
		Where("role = ?", models.RoleEmployee).
		Find(&entries).Error; err != nil {
		return nil, log.Err("failed to list employees", err)
	}

	return entries, nil
}

// CreateImported inserts an employee named displayName. When another import
// already created that name the existing id is returned with created=false.
func (r *identityRepository) CreateImported(ctx context.Context, displayName string) (string, bool, error) {
	log := r.log.Function("CreateImported")

	name := displayName
	identity := &models.Identity{
		Username:     importedUsernamePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		PasswordHash: "",
		Role:         models.RoleEmployee,
		DisplayName:  &name,
		Origin:       models.OriginImport,
		IsActive:     true,
	}

	result := r.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "display_name"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "origin = 'import'"}}},
			DoNothing:   true,
		}).
		Create(identity)
	if result.Error != nil {
		return "", false, log.Err("failed to create imported identity", result.Error, "displayName", displayName)
	}

	if result.RowsAffected > 0 {
		return identity.ID, true, nil
	}

	var existing models.Identity
	if err := r.getDB(ctx).
		Select("id").
		Where("display_name = ? AND origin = ?", displayName, models.OriginImport).
		First(&existing).Error; err != nil {
		return "", false, log.Err("failed to load concurrently imported identity", err, "displayName", displayName)
	}

	log.Info("Imported identity already exists", "displayName", displayName, "id", existing.ID)
	return existing.ID, false, nil
}

func (r *identityRepository) CountByOrigin(ctx context.Context, origin models.Origin) (int64, error) {
	log := r.log.Function("CountByOrigin")

	var count int64
	if err := r.getDB(ctx).Model(&models.Identity{}).Where("origin = ?", origin).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count identities", err, "origin", origin)
	}

	return count, nil
}
