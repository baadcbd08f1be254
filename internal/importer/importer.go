// Package importer loads the local supplier directory from CSV or XLSX files.
package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/model"
	"github.com/sells-group/plant-locator/internal/normalize"
)

// Column names recognised in the header row, keyed by normalized header.
var headerAliases = map[string]string{
	"name":          "name",
	"supplier":      "name",
	"supplier name": "name",
	"material":      "material",
	"raw material":  "material",
	"process":       "process",
	"address":       "address",
	"city":          "city",
	"state":         "region",
	"region":        "region",
	"state/ut":      "region",
	"latitude":      "latitude",
	"lat":           "latitude",
	"longitude":     "longitude",
	"lng":           "longitude",
	"lon":           "longitude",
	"contact":       "contact",
	"phone":         "contact",
}

var requiredColumns = []string{"name", "material", "region"}

// RowError describes a skipped data row. Row is the 1-based line of the row
// in the source file, so blank lines and the header are counted.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result is the outcome of one import.
type Result struct {
	Suppliers []model.Supplier
	Skipped   []RowError
}

// Importer turns tabular rows into validated suppliers. Region names are
// mapped through the dataset's alias table and must name a ranked region.
type Importer struct {
	validate *validator.Validate
	data     *dataset.Dataset
}

// New creates an Importer for the regions of data.
func New(data *dataset.Dataset) *Importer {
	return &Importer{
		validate: validator.New(),
		data:     data,
	}
}

// ImportFile reads path as CSV or XLSX depending on its extension.
func (im *Importer) ImportFile(path string) (*Result, error) {
	var table *Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "importer: open csv")
		}
		defer f.Close()
		table, err = ReadCSV(f)
		if err != nil {
			return nil, err
		}
	case ".xlsx":
		var err error
		table, err = ReadXLSX(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("importer: unsupported file type %q (want .csv or .xlsx)", ext)
	}
	return im.Parse(table)
}

// Parse maps rows to suppliers. The first row is the header. Invalid data rows
// are skipped and reported in Result.Skipped; a header missing a required
// column is an error.
func (im *Importer) Parse(t *Table) (*Result, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, eris.New("importer: empty file")
	}
	cols, err := mapHeader(t.Rows[0])
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for i := 1; i < len(t.Rows); i++ {
		row := t.Rows[i]
		if blank(row) {
			continue
		}
		sup, err := im.parseRow(cols, row)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: t.line(i), Reason: err.Error()})
			continue
		}
		res.Suppliers = append(res.Suppliers, sup)
	}

	zap.L().Debug("importer: parsed rows",
		zap.Int("imported", len(res.Suppliers)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

func (im *Importer) parseRow(cols map[string]int, row []string) (model.Supplier, error) {
	get := func(field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	sup := model.Supplier{
		Name:     get("name"),
		Material: get("material"),
		Process:  get("process"),
		Address:  get("address"),
		City:     get("city"),
		Contact:  get("contact"),
	}

	var err error
	if sup.Latitude, err = parseCoord(get("latitude")); err != nil {
		return sup, eris.Wrap(err, "latitude")
	}
	if sup.Longitude, err = parseCoord(get("longitude")); err != nil {
		return sup, eris.Wrap(err, "longitude")
	}

	region := get("region")
	if region != "" {
		canonical, ok := im.data.ResolveRegion(region)
		if !ok {
			return sup, eris.Errorf("unknown region %q", region)
		}
		sup.Region = canonical
	}

	if err := im.validate.Struct(sup); err != nil {
		return sup, validationMessage(err)
	}
	return sup, nil
}

func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		field, ok := headerAliases[normalize.Key(strings.TrimPrefix(h, "\ufeff"))]
		if !ok {
			continue
		}
		if _, dup := cols[field]; !dup {
			cols[field] = i
		}
	}
	var missing []string
	for _, f := range requiredColumns {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("importer: header missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseCoord(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// validationMessage flattens validator errors into "field: tag" pairs.
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = strings.ToLower(fe.Field()) + ": " + fe.Tag()
	}
	return eris.Errorf("invalid %s", strings.Join(parts, ", "))
}
