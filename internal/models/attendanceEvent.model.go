package models

import "time"

type EventKind string

const (
	EventEntry EventKind = "entry"
	EventExit  EventKind = "exit"
)

// AttendanceEvent is append-only. (IdentityID, EventTime, EventType,
// Checkpoint) is unique and is the only deduplication key.
type AttendanceEvent struct {
	BaseModel
	IdentityID string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_attendance_dedup,priority:1" json:"identityId"`
	RawName    string    `gorm:"type:varchar(255)"                                                    json:"rawName"`
	EventTime  time.Time `gorm:"not null;uniqueIndex:uq_attendance_dedup,priority:2"                  json:"eventTime"`
	EventType  EventKind `gorm:"type:varchar(8);not null;uniqueIndex:uq_attendance_dedup,priority:3"  json:"eventType"`
	Checkpoint string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_attendance_dedup,priority:4" json:"checkpoint"`

	Identity *Identity `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AttendanceEvent) TableName() string {
	return "attendance_events"
}

// NewAttendanceEvent is the insert shape of AttendanceEvent. It has no primary
// key field so inserts that skip conflicting rows report only the rows written.
type NewAttendanceEvent struct {
	IdentityID string
	RawName    string
	EventTime  time.Time
	EventType  EventKind
	Checkpoint string
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (NewAttendanceEvent) TableName() string {
	return "attendance_events"
}
