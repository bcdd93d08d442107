package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const excelDateLayout = "2006-01-02 15:04:05"

// XLSXReader reads the first worksheet. Numeric cells formatted as dates are
// rendered as "2006-01-02 15:04:05" so that locale display formats never
// reach the timestamp parser.
type XLSXReader struct{}

func (XLSXReader) ReadRows(r io.Reader) ([][]Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableSheet)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dates := &dateStyles{file: f, sheet: sheet, known: map[int]bool{}}

	rows := make([][]Cell, len(raw))
	for i, values := range raw {
		row := make([]Cell, len(values))
		for j, value := range values {
			if value != "" && dates.isDate(j+1, i+1) {
				value = excelSerialToText(value, date1904)
			}
			row[j] = NewCell(value)
		}
		rows[i] = row
	}

	return rows, nil
}

func excelSerialToText(value string, date1904 bool) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return value
	}
	return t.Round(time.Second).Format(excelDateLayout)
}

type dateStyles struct {
	file  *excelize.File
	sheet string
	known map[int]bool
}

func (d *dateStyles) isDate(col, row int) bool {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}

	styleID, err := d.file.GetCellStyle(d.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}

	if isDate, ok := d.known[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := d.file.GetStyle(styleID); err == nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	d.known[styleID] = isDate
	return isDate
}

var (
	numFmtLiteral = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)
	numFmtDate    = regexp.MustCompile(`[dmyhs]`)
)

func isDateNumFmt(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}

	if custom == nil {
		return false
	}

	format := strings.ToLower(numFmtLiteral.ReplaceAllString(*custom, ""))
	if format == "general" {
		return false
	}
	return numFmtDate.MatchString(format)
}
