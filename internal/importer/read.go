package importer

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Table is the content of one supplier file. Lines holds the 1-based file
// line (CSV) or sheet row (XLSX) each entry of Rows was read from.
type Table struct {
	Rows  [][]string
	Lines []int
}

// line returns the file line of Rows[i], falling back to its position.
func (t *Table) line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 1
}

// ReadCSV reads every record of a comma-separated file. Rows may have
// differing field counts. Blank lines are skipped but still counted in Lines.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	t := &Table{}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read rows")
		}
		line, _ := reader.FieldPos(0)
		t.Rows = append(t.Rows, rec)
		t.Lines = append(t.Lines, line)
	}
	return t, nil
}

// ReadXLSX reads every row of the first sheet of an XLSX workbook.
func ReadXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	t := &Table{
		Rows:  make([][]string, 0, len(sheet.Rows)),
		Lines: make([]int, 0, len(sheet.Rows)),
	}
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		t.Rows = append(t.Rows, cells)
		t.Lines = append(t.Lines, i+1)
	}
	return t, nil
}
