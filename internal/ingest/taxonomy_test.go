package ingest

import (
	"sort"
	"testing"

	"attendtrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestColumnAliasesAreDisjoint(t *testing.T) {
	owner := map[string]Field{}
	for field, aliases := range ColumnAliases {
		for _, alias := range aliases {
			if previous, ok := owner[alias]; ok {
				t.Fatalf("alias %q used by %s and %s", alias, previous, field)
			}
			owner[alias] = field
		}
	}

	for _, field := range RequiredFields {
		assert.NotEmpty(t, ColumnAliases[field], field)
	}
}

func TestIsColumnAlias(t *testing.T) {
	assert.True(t, IsColumnAlias("ФИО"))
	assert.True(t, IsColumnAlias("  Event_Time "))
	assert.True(t, IsColumnAlias("Дата/время"))
	assert.False(t, IsColumnAlias(""))
	assert.False(t, IsColumnAlias("13.01.2026 08:00:00"))
}

func TestLookupEventKind(t *testing.T) {
	tests := map[string]models.EventKind{
		"вход":  models.EventEntry,
		"Выход": models.EventExit,
		"ENTRY": models.EventEntry,
		" out ": models.EventExit,
		"Нормальный вход по ключу":    models.EventEntry,
		"выход (инициировано картой)": models.EventExit,
	}

	for input, want := range tests {
		kind, ok := LookupEventKind(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, kind, input)
	}

	_, ok := LookupEventKind("проход")
	assert.False(t, ok)
}

func TestClassifySystemEvent(t *testing.T) {
	skip, report := ClassifySystemEvent("Нет входа - идентификатора нет в БД")
	assert.True(t, skip)
	assert.True(t, report)

	skip, report = ClassifySystemEvent(`Создание объекта "персона"`)
	assert.True(t, skip)
	assert.False(t, report)

	skip, report = ClassifySystemEvent(" Access Denied ")
	assert.True(t, skip)
	assert.True(t, report)

	skip, report = ClassifySystemEvent("вход")
	assert.False(t, skip)
	assert.False(t, report)
}

func TestSystemEventsNeverMapToKinds(t *testing.T) {
	for event := range SystemEvents {
		_, ok := EventKinds[event]
		assert.False(t, ok, event)
	}
}

func TestAcceptedEventTypes(t *testing.T) {
	accepted := AcceptedEventTypes()
	assert.Len(t, accepted, len(EventKinds))
	assert.True(t, sort.StringsAreSorted(accepted))
	assert.Contains(t, accepted, "entry")
	assert.Contains(t, accepted, "выход")
}
