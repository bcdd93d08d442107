package ingest

import (
	"fmt"
	"strings"
	"time"

	"attendtrack/internal/logger"
	"attendtrack/internal/models"
	"attendtrack/internal/utils"
)

// MissingColumnsError aborts a whole sheet: no row can be read without these.
type MissingColumnsError struct {
	Missing []Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, field := range e.Missing {
		names[i] = string(field)
	}
	return "missing required columns: " + strings.Join(names, ", ")
}

// Record is a row that passed every check and awaits identity resolution.
type Record struct {
	Row        int
	RawName    string
	EventTime  time.Time
	EventType  models.EventKind
	Checkpoint string
}

type Extraction struct {
	Records       []Record
	Errors        []string
	SkippedEvents []string
}

// Total counts every non-blank row that was understood: records, parse
// errors and reported skips.
func (e Extraction) Total() int {
	return len(e.Records) + len(e.Errors) + len(e.SkippedEvents)
}

type Extractor struct {
	dates    *utils.DateValidator
	location *time.Location
	log      logger.Logger
}

// NewExtractor reads timestamps without an explicit offset in loc.
func NewExtractor(loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{
		dates:    utils.NewDateValidator(),
		location: loc,
		log:      logger.New("extractor"),
	}
}

// Parse locates the header and extracts records from rows.
func (e *Extractor) Parse(rows [][]Cell) (Extraction, int, error) {
	headerIdx := LocateHeader(rows)
	extraction, err := e.Extract(rows, headerIdx)
	return extraction, headerIdx, err
}

// Extract reads every row below headerIdx. Row numbers in messages are the
// 1-based visible row numbers of the sheet.
func (e *Extractor) Extract(rows [][]Cell, headerIdx int) (Extraction, error) {
	log := e.log.Function("Extract")

	var header []Cell
	if headerIdx >= 0 && headerIdx < len(rows) {
		header = rows[headerIdx]
	}

	columns, err := mapColumns(header)
	if err != nil {
		return Extraction{}, err
	}

	var (
		result                                     Extraction
		skippedEmpty, skippedHeader, skippedSystem int
	)

	for position, row := range rows[min(headerIdx+1, len(rows)):] {
		rowNumber := headerIdx + 2 + position

		rawName := cellAt(row, columns[FieldRawName]).Text()
		rawTime := cellAt(row, columns[FieldEventTime]).Text()
		rawType := cellAt(row, columns[FieldEventType]).Text()
		checkpoint := cellAt(row, columns[FieldCheckpoint]).Text()

		if rawName == "" && rawTime == "" && rawType == "" {
			skippedEmpty++
			continue
		}

		if IsColumnAlias(rawTime) {
			skippedHeader++
			log.Debug("Repeated header row skipped", "row", rowNumber, "eventTime", rawTime)
			continue
		}

		if skip, report := ClassifySystemEvent(rawType); skip {
			skippedSystem++
			if report {
				message := fmt.Sprintf("Row %d: %s", rowNumber, rawType)
				if rawName != "" {
					message += fmt.Sprintf(" (%s)", rawName)
				}
				result.SkippedEvents = append(result.SkippedEvents, message)
			}
			log.Debug("System event skipped", "row", rowNumber, "rawName", rawName, "eventType", rawType)
			continue
		}

		eventTime, err := e.dates.ParseDayFirst(rawTime, e.location)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: invalid date format '%s'", rowNumber, rawTime))
			continue
		}

		kind, ok := LookupEventKind(rawType)
		if !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: unknown event type '%s'. Accepted values: %s",
					rowNumber, rawType, strings.Join(AcceptedEventTypes(), ", ")))
			continue
		}

		var empty []string
		if rawName == "" {
			empty = append(empty, string(FieldRawName))
		}
		if checkpoint == "" {
			empty = append(empty, string(FieldCheckpoint))
		}
		if len(empty) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: %s must not be empty", rowNumber, strings.Join(empty, ", ")))
			continue
		}

		result.Records = append(result.Records, Record{
			Row:        rowNumber,
			RawName:    rawName,
			EventTime:  eventTime,
			EventType:  kind,
			Checkpoint: checkpoint,
		})
	}

	log.Info("Sheet parsed",
		"headerRow", headerIdx,
		"records", len(result.Records),
		"errors", len(result.Errors),
		"skippedSystem", skippedSystem,
		"skippedEmpty", skippedEmpty,
		"skippedHeader", skippedHeader)

	return result, nil
}

// mapColumns finds the column index of every required field in header.
func mapColumns(header []Cell) (map[Field]int, error) {
	positions := make(map[string]int, len(header))
	for i, cell := range header {
		if !cell.Valid {
			continue
		}
		name := cell.folded()
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	columns := make(map[Field]int, len(RequiredFields))
	var missing []Field
	for _, field := range RequiredFields {
		found := false
		for _, alias := range ColumnAliases[field] {
			if index, ok := positions[alias]; ok {
				columns[field] = index
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}
	return columns, nil
}
