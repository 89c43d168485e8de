package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

// ParseFile reads and parses a tabular export, dispatching on file
// extension: .xlsx goes through the workbook reader, everything else
// is treated as CSV.
func ParseFile(path string, opts ParseOptions) (*model.ParseResult, error) {
	var rows []RawRow
	var err error

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = ReadXLSX(path)
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		rows, err = ReadCSV(f)
	}
	if err != nil {
		return nil, err
	}

	return ParseRows(rows, opts), nil
}
