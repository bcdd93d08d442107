package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads UTF-8 or Windows-1251 text separated by semicolons, commas
// or tabs, whichever dominates the leading lines. Every physical line maps to
// one row, so blank lines come back as empty rows and keep later row numbers
// aligned with the file.
type CSVReader struct{}

func (CSVReader) ReadRows(r io.Reader) ([][]Cell, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		data, err = charmap.Windows1251.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		rows     [][]Cell
		consumed int   // lines up to the end of the previous record
		offset   int64 // byte offset of the end of the previous record
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableSheet, err)
		}

		// encoding/csv skips empty lines; put them back
		start, _ := reader.FieldPos(0)
		for line := consumed + 1; line < start; line++ {
			rows = append(rows, []Cell{})
		}
		rows = append(rows, Cells(record...))

		end := reader.InputOffset()
		consumed += bytes.Count(data[offset:end], []byte("\n"))
		offset = end
	}
	return rows, nil
}

const sniffLines = 20

// sniffDelimiter picks the candidate occurring most often in the leading
// lines. Banner lines without any delimiter do not count.
func sniffDelimiter(data []byte) rune {
	counts := map[rune]int{}
	for i, line := range bytes.SplitN(data, []byte("\n"), sniffLines+1) {
		if i == sniffLines {
			break
		}
		for _, delimiter := range []rune{';', ',', '\t'} {
			counts[delimiter] += bytes.Count(line, []byte(string(delimiter)))
		}
	}

	best, bestCount := ',', 0
	for _, delimiter := range []rune{';', ',', '\t'} {
		if counts[delimiter] > bestCount {
			best, bestCount = delimiter, counts[delimiter]
		}
	}
	return best
}
