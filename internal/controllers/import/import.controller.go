package importController

import (
	"attendtrack/config"
	"attendtrack/internal/events"
	"attendtrack/internal/ingest"
	"attendtrack/internal/logger"
	"attendtrack/internal/repositories"
	"attendtrack/internal/services"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	. "attendtrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	loggedSkipLimit = 5
	maxPerPage      = 100
)

var ErrUnsupportedExtension = errors.New("unsupported file extension")

type ImportResult struct {
	Filename      string       `json:"filename"`
	Total         int          `json:"total"`
	InsertedCount int          `json:"inserted_count"`
	Skipped       int          `json:"skipped"`
	ErrorCount    int          `json:"error_count"`
	Errors        []string     `json:"errors"`
	SkippedEvents []string     `json:"skipped_events"`
	Status        ImportStatus `json:"status"`
	AuditID       int64        `json:"audit_id"`
}

type HistoryItem struct {
	ID         int64        `json:"id"`
	Filename   string       `json:"filename"`
	UploadedBy string       `json:"uploaded_by"`
	UploadedAt time.Time    `json:"uploaded_at"`
	Status     ImportStatus `json:"status"`
	Logs       ImportLog    `json:"logs"`
}

type HistoryPage struct {
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Pages   int           `json:"pages"`
	Items   []HistoryItem `json:"items"`
}

type ImportController struct {
	transactions *services.TransactionService
	resolver     *services.IdentityResolver
	extractor    *ingest.Extractor
	identityRepo repositories.IdentityRepository
	eventRepo    repositories.AttendanceEventRepository
	auditRepo    repositories.ImportAuditRepository
	eventBus     *events.EventBus
	Config       config.Config
	log          logger.Logger
}

func New(
	eventBus *events.EventBus,
	transactions *services.TransactionService,
	identityRepo repositories.IdentityRepository,
	eventRepo repositories.AttendanceEventRepository,
	auditRepo repositories.ImportAuditRepository,
	config config.Config,
) *ImportController {
	return &ImportController{
		transactions: transactions,
		resolver:     services.NewIdentityResolver(identityRepo, config.FuzzyMatchThreshold),
		extractor:    ingest.NewExtractor(config.Location()),
		identityRepo: identityRepo,
		eventRepo:    eventRepo,
		auditRepo:    auditRepo,
		eventBus:     eventBus,
		Config:       config,
		log:          logger.New("ImportController"),
	}
}

// IsClientError reports whether err was caused by the uploaded file itself
// rather than by storage.
func IsClientError(err error) bool {
	var missing *ingest.MissingColumnsError
	return errors.Is(err, ErrUnsupportedExtension) ||
		errors.Is(err, ingest.ErrUnreadableSheet) ||
		errors.As(err, &missing)
}

// Classify derives the outcome of an upload from its counts. Nothing inserted
// is a failure even for a file with no rows at all.
func Classify(inserted, parseErrors, duplicates int) ImportStatus {
	switch {
	case inserted == 0:
		return ImportFailed
	case parseErrors > 0 || duplicates > 0:
		return ImportPartial
	default:
		return ImportSuccess
	}
}

// Import ingests one spreadsheet. Files that cannot be read or lack required
// columns are rejected with an error and leave no audit; any other readable
// file produces a result and an audit, even when every row failed.
func (c *ImportController) Import(
	ctx context.Context,
	filename string,
	r io.Reader,
	uploaderID *string,
) (*ImportResult, error) {
	log := c.log.Function("Import")
	startTime := time.Now()

	reader, ok := ingest.ReaderFor(filename)
	if !ok {
		log.Warn("rejected upload", "filename", filename, "allowed", ingest.SupportedExtensions())
		return nil, fmt.Errorf("%w %q, allowed: %s", ErrUnsupportedExtension,
			filepath.Ext(filename), strings.Join(ingest.SupportedExtensions(), ", "))
	}

	rows, err := reader.ReadRows(r)
	if err != nil {
		log.Warn("failed to read upload", "filename", filename, "error", err)
		return nil, err
	}

	extraction, headerIdx, err := c.extractor.Parse(rows)
	if err != nil {
		log.Warn("failed to parse upload", "filename", filename, "error", err)
		return nil, err
	}

	total := extraction.Total()
	log.Info("upload parsed",
		"filename", filename,
		"headerRow", headerIdx,
		"rows", len(rows),
		"records", len(extraction.Records),
		"parseErrors", len(extraction.Errors),
		"skippedEvents", len(extraction.SkippedEvents),
		"parseTimeMs", time.Since(startTime).Milliseconds())

	c.logOutcomes(filename, total, extraction)

	var (
		inserted int64
		audit    *ImportAudit
		status   ImportStatus
	)
	err = c.transactions.Execute(ctx, func(txCtx context.Context) error {
		n, err := c.insertRecords(txCtx, extraction.Records)
		if err != nil {
			return err
		}
		inserted = n

		duplicates := len(extraction.Records) - int(inserted)
		status = Classify(int(inserted), len(extraction.Errors), duplicates)

		audit = &ImportAudit{
			Filename:   filename,
			UploadedBy: uploaderID,
			UploadedAt: time.Now().UTC(),
			Status:     status,
			Logs: datatypes.NewJSONType(ImportLog{
				Total:         total,
				Inserted:      int(inserted),
				Skipped:       duplicates,
				Errors:        TruncateMessages(extraction.Errors),
				SkippedEvents: TruncateMessages(extraction.SkippedEvents),
			}),
		}
		return c.auditRepo.Create(txCtx, audit)
	})
	if err != nil {
		return nil, log.Err("failed to import upload", err, "filename", filename)
	}

	result := &ImportResult{
		Filename:      filename,
		Total:         total,
		InsertedCount: int(inserted),
		Skipped:       len(extraction.Records) - int(inserted),
		ErrorCount:    len(extraction.Errors),
		Errors:        nonNil(extraction.Errors),
		SkippedEvents: nonNil(extraction.SkippedEvents),
		Status:        status,
		AuditID:       audit.ID,
	}

	log.Info("upload completed",
		"filename", filename,
		"auditID", audit.ID,
		"status", status,
		"total", total,
		"inserted", result.InsertedCount,
		"duplicates", result.Skipped,
		"elapsedMs", time.Since(startTime).Milliseconds())

	c.afterCommit(ctx, audit, result)

	return result, nil
}

func (c *ImportController) insertRecords(ctx context.Context, records []ingest.Record) (int64, error) {
	log := c.log.Function("insertRecords")

	if len(records) == 0 {
		return 0, nil
	}

	cache := services.NewNameCache()
	rows := make([]NewAttendanceEvent, 0, len(records))
	for _, record := range records {
		identityID, err := c.resolver.Resolve(ctx, record.RawName, cache)
		if err != nil {
			return 0, log.Err("failed to resolve identity", err, "row", record.Row)
		}

		rows = append(rows, NewAttendanceEvent{
			IdentityID: identityID,
			RawName:    record.RawName,
			EventTime:  record.EventTime.UTC(),
			EventType:  record.EventType,
			Checkpoint: record.Checkpoint,
		})
	}

	log.Info("identities resolved", "records", len(rows), "distinctNames", len(cache))

	inserted, err := c.eventRepo.InsertIgnoringConflicts(ctx, rows, c.Config.ImportBatchSize)
	if err != nil {
		return 0, err
	}

	log.Info("events inserted",
		"attempted", len(rows),
		"inserted", inserted,
		"batchSize", c.Config.ImportBatchSize)

	return inserted, nil
}

func (c *ImportController) logOutcomes(filename string, total int, extraction ingest.Extraction) {
	log := c.log.Function("logOutcomes")

	for _, message := range extraction.Errors {
		log.Warn("row rejected", "filename", filename, "error", message)
	}

	if len(extraction.Errors) > 0 && total > 0 {
		log.Warn("parse errors encountered",
			"filename", filename,
			"errorCount", len(extraction.Errors),
			"errorRate", fmt.Sprintf("%.2f%%", float64(len(extraction.Errors))/float64(total)*100))
	}

	for _, message := range extraction.SkippedEvents[:min(loggedSkipLimit, len(extraction.SkippedEvents))] {
		log.Info("system event skipped", "filename", filename, "event", message)
	}
	if extra := len(extraction.SkippedEvents) - loggedSkipLimit; extra > 0 {
		log.Info(fmt.Sprintf("... and %d more", extra), "filename", filename)
	}
}

// afterCommit caches the audit and announces the import. Both are best effort.
func (c *ImportController) afterCommit(ctx context.Context, audit *ImportAudit, result *ImportResult) {
	log := c.log.Function("afterCommit")

	if audit.UploadedBy != nil && audit.Uploader == nil {
		uploader, err := c.identityRepo.GetByID(ctx, *audit.UploadedBy)
		if err != nil {
			log.Warn("failed to load uploader", "auditID", audit.ID, "error", err)
		} else {
			audit.Uploader = uploader
		}
	}

	if err := c.auditRepo.AddToCache(ctx, audit); err != nil {
		log.Warn("failed to cache import audit", "auditID", audit.ID, "error", err)
	}

	if c.eventBus == nil {
		return
	}

	var userID string
	if audit.UploadedBy != nil {
		userID = *audit.UploadedBy
	}

	event := events.Event{
		ID:     uuid.New().String(),
		Type:   "import",
		Action: "completed",
		UserID: userID,
		Data: map[string]any{
			"auditId":  audit.ID,
			"filename": result.Filename,
			"status":   result.Status,
			"total":    result.Total,
			"inserted": result.InsertedCount,
			"skipped":  result.Skipped,
			"errors":   result.ErrorCount,
		},
		Timestamp: audit.UploadedAt,
	}
	if err := c.eventBus.Publish(events.ImportCompleted, event); err != nil {
		log.Warn("failed to publish import event", "auditID", audit.ID, "error", err)
	}
}

// History returns one page of audits, newest first. page starts at 1.
func (c *ImportController) History(ctx context.Context, page, perPage int) (*HistoryPage, error) {
	log := c.log.Function("History")

	page = max(page, 1)
	perPage = min(max(perPage, 1), maxPerPage)

	audits, total, err := c.auditRepo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, log.Err("failed to list import audits", err, "page", page, "perPage", perPage)
	}

	items := make([]HistoryItem, 0, len(audits))
	for _, audit := range audits {
		items = append(items, historyItem(audit))
	}

	return &HistoryPage{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   max(int((total+int64(perPage)-1)/int64(perPage)), 1),
		Items:   items,
	}, nil
}

func (c *ImportController) GetAudit(ctx context.Context, id int64) (*HistoryItem, error) {
	audit, err := c.auditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item := historyItem(audit)
	return &item, nil
}

func historyItem(audit *ImportAudit) HistoryItem {
	logs := audit.Logs.Data()
	logs.Errors = nonNil(logs.Errors)
	logs.SkippedEvents = nonNil(logs.SkippedEvents)

	return HistoryItem{
		ID:         audit.ID,
		Filename:   audit.Filename,
		UploadedBy: audit.UploaderName(),
		UploadedAt: audit.UploadedAt,
		Status:     audit.Status,
		Logs:       logs,
	}
}

func nonNil(messages []string) []string {
	if messages == nil {
		return []string{}
	}
	return messages
}
