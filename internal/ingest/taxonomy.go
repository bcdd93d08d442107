package ingest

import (
	"sort"
	"strings"

	"attendtrack/internal/models"
)

type Field string

const (
	FieldRawName    Field = "raw_name"
	FieldEventTime  Field = "event_time"
	FieldEventType  Field = "event_type"
	FieldCheckpoint Field = "checkpoint"
)

// RequiredFields is also the order in which missing fields are reported.
var RequiredFields = []Field{FieldRawName, FieldEventTime, FieldEventType, FieldCheckpoint}

// ColumnAliases maps each canonical field to the lower-case header strings
// accepted for it. Earlier aliases win when a sheet carries several.
var ColumnAliases = map[Field][]string{
	FieldRawName: {
		"фио", "full_name", "name", "имя", "сотрудник",
		"субъект", "subject",
	},
	FieldEventTime: {
		"время", "event_time", "time", "datetime",
		"дата_время", "дата/время",
	},
	FieldEventType: {
		"событие", "event_type", "type", "тип", "тип события",
	},
	FieldCheckpoint: {
		"точка", "checkpoint", "point", "точка прохода",
		"источник", "source", "область",
	},
}

// EventKinds maps lower-case event descriptions to entry or exit.
var EventKinds = map[string]models.EventKind{
	"вход": models.EventEntry,
	"вход (инициировано картой)": models.EventEntry,
	"выход": models.EventExit,
	"выход (инициировано картой)": models.EventExit,

	"entry": models.EventEntry,
	"exit":  models.EventExit,
	"in":    models.EventEntry,
	"out":   models.EventExit,

	// Parsec
	"нормальный вход по ключу":   models.EventEntry,
	"нормальный выход по ключу":  models.EventExit,
	"нормальный вход":            models.EventEntry,
	"нормальный выход":           models.EventExit,
	"вход по ключу":              models.EventEntry,
	"выход по ключу":             models.EventExit,
	"считывание карты на входе":  models.EventEntry,
	"считывание карты на выходе": models.EventExit,
	"открытие двери на вход":     models.EventEntry,
	"открытие двери на выход":    models.EventExit,
}

// SystemEvents lists non-attendance ACS records. True marks access denials,
// which are reported to the uploader; false ones are dropped silently.
var SystemEvents = map[string]bool{
	"нет входа - идентификатора нет в бд":  true,
	"нет выхода - идентификатора нет в бд": true,
	"нет входа по временному профилю":      true,
	"нет выхода по временному профилю":     true,
	"нет входа - нет разрешения":           true,
	"нет выхода - нет разрешения":          true,
	// Not a Parsec phrase; English-language exports use it for refusals.
	"access denied": true,

	"изменена/назначена фотография":     false,
	`изменение объекта "идентификатор"`: false,
	`изменение объекта "персона"`:       false,
	`создание объекта "идентификатор"`:  false,
	`создание объекта "персона"`:        false,
	"занесение данных пользователя":     false,
	"удаление объекта":                  false,
	"изменение прав доступа":            false,
}

func IsColumnAlias(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	for _, aliases := range ColumnAliases {
		for _, alias := range aliases {
			if alias == value {
				return true
			}
		}
	}
	return false
}

func LookupEventKind(value string) (models.EventKind, bool) {
	kind, ok := EventKinds[strings.ToLower(strings.TrimSpace(value))]
	return kind, ok
}

// ClassifySystemEvent reports whether value is a system event and, if so,
// whether it belongs in the skip report.
func ClassifySystemEvent(value string) (skip, report bool) {
	report, skip = SystemEvents[strings.ToLower(strings.TrimSpace(value))]
	return skip, report
}

// AcceptedEventTypes returns the event-kind vocabulary in sorted order.
func AcceptedEventTypes() []string {
	accepted := make([]string, 0, len(EventKinds))
	for value := range EventKinds {
		accepted = append(accepted, value)
	}
	sort.Strings(accepted)
	return accepted
}
