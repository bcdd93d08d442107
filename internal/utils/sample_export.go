package utils

import (
	"attendtrack/internal/logger"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/xuri/excelize/v2"
)

const sampleTimeLayout = "02.01.2006 15:04:05"

var (
	sampleHeader     = []string{"ФИО", "Время", "Событие", "Точка"}
	sampleFirstNames = []string{"Иван", "Анна", "Олег", "Мария", "Дмитрий", "Елена", "Павел", "Ольга"}
	sampleLastNames  = []string{"Петров", "Смирнова", "Кузнецов", "Попова", "Соколов", "Лебедева", "Морозов", "Новикова"}
)

// SampleExportConfig describes a synthetic ACS export.
type SampleExportConfig struct {
	Employees   int
	Days        int
	Checkpoints []string
	Start       time.Time
	BannerRows  int
	Seed        int64
	Logger      logger.Logger
}

// SampleStats counts what an import of the generated export should report.
type SampleStats struct {
	Attendance int
	Reported   int
	Silent     int
}

// SampleExportGenerator writes Parsec-style exports for demos and load checks:
// banner rows, a Russian header, entry/exit pairs per employee per day, an
// access denial for every seventh employee-day and one silent system event per day.
type SampleExportGenerator struct {
	config *SampleExportConfig
	log    logger.Logger
}

func NewSampleExportGenerator(config *SampleExportConfig) *SampleExportGenerator {
	if config.Employees <= 0 {
		config.Employees = 10
	}
	if limit := len(sampleFirstNames) * len(sampleLastNames); config.Employees > limit {
		config.Employees = limit
	}
	if config.Days <= 0 {
		config.Days = 1
	}
	if len(config.Checkpoints) == 0 {
		config.Checkpoints = []string{"Турникет 1", "Турникет 2"}
	}
	if config.Start.IsZero() {
		config.Start = time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	}

	return &SampleExportGenerator{
		config: config,
		log:    config.Logger.Function("SampleExportGenerator"),
	}
}

func (g *SampleExportGenerator) EmployeeName(i int) string {
	last := sampleLastNames[i%len(sampleLastNames)]
	first := sampleFirstNames[(i/len(sampleLastNames))%len(sampleFirstNames)]
	return last + " " + first
}

func (g *SampleExportGenerator) Rows() ([][]string, SampleStats) {
	rng := rand.New(rand.NewSource(g.config.Seed))
	stats := SampleStats{}

	rows := make([][]string, 0, g.config.BannerRows+1+g.config.Days*g.config.Employees*2)
	last := g.config.Start.AddDate(0, 0, g.config.Days-1)
	for i := 0; i < g.config.BannerRows; i++ {
		if i == 0 {
			rows = append(rows, []string{"Отчёт по событиям доступа"})
		} else {
			rows = append(rows, []string{fmt.Sprintf("Период: %s - %s", g.config.Start.Format("02.01.2006"), last.Format("02.01.2006"))})
		}
	}
	rows = append(rows, sampleHeader)

	for day := 0; day < g.config.Days; day++ {
		date := g.config.Start.AddDate(0, 0, day)

		rows = append(rows, []string{"", date.Add(7 * time.Hour).Format(sampleTimeLayout), `изменение объекта "персона"`, ""})
		stats.Silent++

		for employee := 0; employee < g.config.Employees; employee++ {
			name := g.EmployeeName(employee)
			checkpoint := g.config.Checkpoints[rng.Intn(len(g.config.Checkpoints))]

			arrival := date.Add(8*time.Hour + time.Duration(rng.Intn(60))*time.Minute + time.Duration(rng.Intn(60))*time.Second)
			departure := date.Add(17*time.Hour + time.Duration(rng.Intn(90))*time.Minute + time.Duration(rng.Intn(60))*time.Second)

			rows = append(rows,
				[]string{name, arrival.Format(sampleTimeLayout), "Нормальный вход по ключу", checkpoint},
				[]string{name, departure.Format(sampleTimeLayout), "Нормальный выход по ключу", checkpoint},
			)
			stats.Attendance += 2

			if (day*g.config.Employees+employee)%7 == 6 {
				denied := arrival.Add(-time.Minute)
				rows = append(rows, []string{name, denied.Format(sampleTimeLayout), "Нет входа - идентификатора нет в БД", checkpoint})
				stats.Reported++
			}
		}
	}

	return rows, stats
}

func (g *SampleExportGenerator) WriteCSV(w io.Writer) (SampleStats, error) {
	log := g.log.Function("WriteCSV")
	rows, stats := g.Rows()

	writer := csv.NewWriter(w)
	writer.Comma = ';'
	if err := writer.WriteAll(rows); err != nil {
		return SampleStats{}, log.Err("failed to write sample csv", err)
	}

	log.Info("Sample export written", "format", "csv", "rows", len(rows), "attendance", stats.Attendance)
	return stats, nil
}

func (g *SampleExportGenerator) WriteXLSX(w io.Writer) (SampleStats, error) {
	log := g.log.Function("WriteXLSX")
	rows, stats := g.Rows()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return SampleStats{}, log.Err("failed to build cell name", err, "row", i+1)
		}

		values := make([]any, len(row))
		for j, value := range row {
			values[j] = value
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return SampleStats{}, log.Err("failed to write sample row", err, "row", i+1)
		}
	}

	if err := f.Write(w); err != nil {
		return SampleStats{}, log.Err("failed to write sample workbook", err)
	}

	log.Info("Sample export written", "format", "xlsx", "rows", len(rows), "attendance", stats.Attendance)
	return stats, nil
}

func (s SampleStats) String() string {
	return fmt.Sprintf("attendance=%d reported=%d silent=%d", s.Attendance, s.Reported, s.Silent)
}
