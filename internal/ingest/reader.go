package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// RawRow is one input line as a normalized-header → raw-cell map. It
// carries no typed meaning; Position is the 1-based data row number
// used only for error messages (the header row is row 1 of the file,
// so data row n is reported as file row n+1).
type RawRow struct {
	Position int
	Cells    map[string]string
}

// normalizeHeader lowercases and collapses a column label so the same
// column matches across export variants ("Postal Code", "postal_code").
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// cell fetches a column value by any of its recognized names.
func (r RawRow) cell(names ...string) string {
	v, _ := r.lookup(names...)
	return v
}

// lookup fetches a column value by any of its recognized names, also
// reporting which header matched so messages can name the column the
// value actually came from.
func (r RawRow) lookup(names ...string) (value, header string) {
	for _, name := range names {
		key := normalizeHeader(name)
		if v, ok := r.Cells[key]; ok && strings.TrimSpace(v) != "" {
			return v, key
		}
	}
	return "", normalizeHeader(names[0])
}

// ReadCSV reads a delimited file into RawRows. The first line is the
// required header; unrecognized columns are carried through and simply
// never read. Rows with fewer cells than the header are padded with
// blanks.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read CSV header")
	}

	normalized := make([]string, len(header))
	for i, col := range header {
		normalized[i] = normalizeHeader(col)
	}

	var rows []RawRow
	pos := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: read CSV row %d", pos+2)
		}

		pos++
		rows = append(rows, rowFromCells(normalized, record, pos))
	}

	return rows, nil
}

// ReadXLSX reads the first sheet of an XLSX workbook into RawRows,
// using row 1 as the header.
func ReadXLSX(path string) ([]RawRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: xlsx has no sheets")
	}
	sheet := f.Sheets[0]

	var header []string
	var rows []RawRow
	pos := 0
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}

		if i == 0 {
			header = make([]string, len(cells))
			for j, col := range cells {
				header[j] = normalizeHeader(col)
			}
			continue
		}

		pos++
		rows = append(rows, rowFromCells(header, cells, pos))
	}

	if header == nil {
		return nil, eris.New("ingest: xlsx sheet is empty")
	}
	return rows, nil
}

func rowFromCells(header []string, cells []string, pos int) RawRow {
	m := make(map[string]string, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(cells) {
			m[col] = cells[i]
		} else {
			m[col] = ""
		}
	}
	return RawRow{Position: pos, Cells: m}
}
