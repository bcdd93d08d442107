package models

import (
	"time"

	"gorm.io/datatypes"
)

type ImportStatus string

const (
	ImportSuccess ImportStatus = "success"
	ImportPartial ImportStatus = "partial"
	ImportFailed  ImportStatus = "failed"
)

// MaxAuditMessages bounds each message list stored in an audit log.
const MaxAuditMessages = 100

type ImportLog struct {
	Total         int      `json:"total"`
	Inserted      int      `json:"inserted"`
	Skipped       int      `json:"skipped"`
	Errors        []string `json:"errors"`
	SkippedEvents []string `json:"skipped_events"`
}

type ImportAudit struct {
	ID         int64                         `gorm:"primaryKey;autoIncrement"         json:"id"`
	Filename   string                        `gorm:"type:varchar(255);not null"       json:"filename"`
	UploadedBy *string                       `gorm:"type:varchar(64)"                 json:"uploadedBy"`
	UploadedAt time.Time                     `gorm:"not null;index"                   json:"uploadedAt"`
	Status     ImportStatus                  `gorm:"type:varchar(8);not null"         json:"status"`
	Logs       datatypes.JSONType[ImportLog] `gorm:"type:json"                        json:"logs"`

	Uploader *Identity `gorm:"foreignKey:UploadedBy;constraint:OnDelete:SET NULL" json:"uploader,omitempty"`
}

func (ImportAudit) TableName() string {
	return "import_audits"
}

// UploaderName is the uploader's display name or username, empty when the
// uploader is unknown or was not preloaded.
func (a ImportAudit) UploaderName() string {
	if a.Uploader == nil {
		return ""
	}
	return a.Uploader.Name()
}

func TruncateMessages(messages []string) []string {
	if len(messages) > MaxAuditMessages {
		messages = messages[:MaxAuditMessages]
	}
	out := make([]string, len(messages))
	copy(out, messages)
	return out
}
