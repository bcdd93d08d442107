package utils

import (
	"bytes"
	"encoding/csv"
	"testing"

	"attendtrack/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newSampleGenerator(employees, days, banner int) *SampleExportGenerator {
	return NewSampleExportGenerator(&SampleExportConfig{
		Employees:  employees,
		Days:       days,
		BannerRows: banner,
		Seed:       42,
		Logger:     logger.New("test"),
	})
}

func TestSampleExport_Rows(t *testing.T) {
	rows, stats := newSampleGenerator(7, 2, 2).Rows()

	assert.Equal(t, 28, stats.Attendance)
	assert.Equal(t, 2, stats.Reported)
	assert.Equal(t, 2, stats.Silent)
	assert.Len(t, rows, 2+1+stats.Attendance+stats.Reported+stats.Silent)
	assert.Equal(t, []string{"ФИО", "Время", "Событие", "Точка"}, rows[2])
}

func TestSampleExport_IsDeterministic(t *testing.T) {
	first, _ := newSampleGenerator(5, 3, 0).Rows()
	second, _ := newSampleGenerator(5, 3, 0).Rows()
	assert.Equal(t, first, second)
}

func TestSampleExport_EmployeeNamesAreDistinct(t *testing.T) {
	generator := newSampleGenerator(64, 1, 0)
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		name := generator.EmployeeName(i)
		assert.False(t, seen[name], name)
		seen[name] = true
	}

	for a := range seen {
		for b := range seen {
			if a != b {
				assert.Less(t, TokenSortRatio(a, b), 90, "%s ~ %s", a, b)
			}
		}
	}
}

func TestSampleExport_WriteCSV(t *testing.T) {
	var buf bytes.Buffer
	stats, err := newSampleGenerator(3, 1, 1).WriteCSV(&buf)
	require.NoError(t, err)

	reader := csv.NewReader(&buf)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Len(t, records, 1+1+stats.Attendance+stats.Reported+stats.Silent)
}

func TestSampleExport_WriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	stats, err := newSampleGenerator(3, 1, 0).WriteXLSX(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 1+stats.Attendance+stats.Reported+stats.Silent)
	assert.Equal(t, "Петров Иван", rows[2][0])
}
