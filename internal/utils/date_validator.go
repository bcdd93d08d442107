package utils

import (
	"fmt"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatRFC3339        DateFormat = time.RFC3339Nano
	FormatISODateTime    DateFormat = "2006-1-2 15:04:05"
	FormatISODateTimeT   DateFormat = "2006-1-2T15:04:05"
	FormatISODateMinute  DateFormat = "2006-1-2 15:04"
	FormatISODateMinuteT DateFormat = "2006-1-2T15:04"
	FormatISODate        DateFormat = "2006-1-2"
	FormatSlashYearFirst DateFormat = "2006/1/2 15:04:05"
	FormatSlashYearDate  DateFormat = "2006/1/2"
	FormatDotDateTime    DateFormat = "2.1.2006 15:04:05"
	FormatDotDateMinute  DateFormat = "2.1.2006 15:04"
	FormatDotDate        DateFormat = "2.1.2006"
	FormatDotShortYear   DateFormat = "2.1.06 15:04:05"
	FormatDotShortMinute DateFormat = "2.1.06 15:04"
	FormatDotShortDate   DateFormat = "2.1.06"
	FormatSlashDateTime  DateFormat = "2/1/2006 15:04:05"
	FormatSlashMinute    DateFormat = "2/1/2006 15:04"
	FormatSlashDate      DateFormat = "2/1/2006"
	FormatDashDateTime   DateFormat = "2-1-2006 15:04:05"
	FormatDashMinute     DateFormat = "2-1-2006 15:04"
	FormatDashDate       DateFormat = "2-1-2006"
)

// DateValidator parses ACS timestamps. Year-first layouts are year-month-day;
// every other numeric layout is day-month-year, so "03.04.2026" is 3 April.
type DateValidator struct {
	supportedFormats []DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	OriginalValue  string
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISODateTime,
			FormatISODateTimeT,
			FormatISODateMinute,
			FormatISODateMinuteT,
			FormatISODate,
			FormatSlashYearFirst,
			FormatSlashYearDate,
			FormatDotDateTime,
			FormatDotDateMinute,
			FormatDotDate,
			FormatSlashDateTime,
			FormatSlashMinute,
			FormatSlashDate,
			FormatDashDateTime,
			FormatDashMinute,
			FormatDashDate,
			FormatDotShortYear,
			FormatDotShortMinute,
			FormatDotShortDate,
		},
	}
}

// ValidateAndConvert interprets input in loc unless it carries its own offset.
func (dv *DateValidator) ValidateAndConvert(input string, loc *time.Location) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.Join(strings.Fields(input), " ")
	if input == "" {
		return result
	}

	if loc == nil {
		loc = time.UTC
	}

	if parsedTime, err := time.Parse(string(FormatRFC3339), input); err == nil {
		result.IsValid = true
		result.DetectedFormat = FormatRFC3339
		result.ParsedTime = parsedTime
		return result
	}

	for _, format := range dv.supportedFormats {
		// fractional seconds after the seconds field are accepted by time.Parse
		parsedTime, err := time.ParseInLocation(string(format), input, loc)
		if err != nil {
			continue
		}

		result.IsValid = true
		result.DetectedFormat = format
		result.ParsedTime = parsedTime
		return result
	}

	return result
}

func (dv *DateValidator) ParseDayFirst(input string, loc *time.Location) (time.Time, error) {
	result := dv.ValidateAndConvert(input, loc)
	if !result.IsValid {
		return time.Time{}, fmt.Errorf("unrecognized date %q", input)
	}
	return result.ParsedTime, nil
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}

func (dv *DateValidator) AddCustomFormat(format DateFormat) {
	dv.supportedFormats = append(dv.supportedFormats, format)
}
