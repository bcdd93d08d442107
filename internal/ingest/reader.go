package ingest

import (
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

var ErrUnreadableSheet = errors.New("unreadable spreadsheet")

// SheetReader turns spreadsheet bytes into rows of cells.
type SheetReader interface {
	ReadRows(r io.Reader) ([][]Cell, error)
}

var readers = map[string]SheetReader{
	".xlsx": XLSXReader{},
	".xlsm": XLSXReader{},
	".csv":  CSVReader{},
}

// ReaderFor picks a reader by the extension of filename.
func ReaderFor(filename string) (SheetReader, bool) {
	reader, ok := readers[strings.ToLower(filepath.Ext(filename))]
	return reader, ok
}

func SupportedExtensions() []string {
	extensions := make([]string, 0, len(readers))
	for extension := range readers {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}
