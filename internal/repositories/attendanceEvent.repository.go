package repositories

import (
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
	"attendtrack/internal/models"
	"attendtrack/internal/services"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultInsertBatchSize = 500

type AttendanceEventRepository interface {
	InsertIgnoringConflicts(ctx context.Context, events []models.NewAttendanceEvent, batchSize int) (int64, error)
	Count(ctx context.Context) (int64, error)
	ListByIdentity(ctx context.Context, identityID string) ([]models.AttendanceEvent, error)
}

type attendanceEventRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAttendanceEvent(db database.DB) AttendanceEventRepository {
	return &attendanceEventRepository{
		db:  db,
		log: logger.New("attendanceEventRepository"),
	}
}

func (r *attendanceEventRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// InsertIgnoringConflicts writes events in batches of batchSize, silently
// dropping rows that collide on uq_attendance_dedup, and returns how many rows
// were written. Run it inside a transaction to make all batches atomic.
func (r *attendanceEventRepository) InsertIgnoringConflicts(
	ctx context.Context,
	events []models.NewAttendanceEvent,
	batchSize int,
) (int64, error) {
	log := r.log.Function("InsertIgnoringConflicts")

	if len(events) == 0 {
		return 0, nil
	}

	if batchSize <= 0 {
		batchSize = defaultInsertBatchSize
	}

	result := r.getDB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&events, batchSize)
	if result.Error != nil {
		return 0, log.Err("failed to insert attendance events", result.Error,
			"totalRecords", len(events),
			"batchSize", batchSize)
	}

	log.Info("Inserted attendance events",
		"attempted", len(events),
		"inserted", result.RowsAffected,
		"batchSize", batchSize)
	return result.RowsAffected, nil
}

func (r *attendanceEventRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := r.getDB(ctx).Model(&models.AttendanceEvent{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count attendance events", err)
	}

	return count, nil
}

func (r *attendanceEventRepository) ListByIdentity(ctx context.Context, identityID string) ([]models.AttendanceEvent, error) {
	log := r.log.Function("ListByIdentity")

	var events []models.AttendanceEvent
	if err := r.getDB(ctx).
		Where("identity_id = ?", identityID).
		Order("event_time ASC").
		Find(&events).Error; err != nil {
		return nil, log.Err("failed to list attendance events", err, "identityID", identityID)
	}

	return events, nil
}
