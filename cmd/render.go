package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/plant-locator/internal/model"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

var formats = []string{formatTable, formatJSON, formatYAML, formatCSV}

var displayHeader = []string{
	"State/UT", "Overall Score", "Electricity Tariff", "Fixed Charges",
	"EODB Score", "Labor Score", "Infrastructure Score", "Recommended Zones",
}

func checkFormat(format string) error {
	if !slices.Contains(formats, format) {
		return eris.Errorf("unknown format %q, choose from: %s", format, strings.Join(formats, ", "))
	}
	return nil
}

// displayReport is the serialized form of a report: the analysis details
// plus each recommendation rendered for people.
type displayReport struct {
	Details   model.AnalysisDetails       `json:"analysis_details" yaml:"analysis_details"`
	Results   []model.DisplayRow          `json:"results" yaml:"results"`
	Suppliers map[string][]model.Supplier `json:"suppliers,omitempty" yaml:"suppliers,omitempty"`
}

func toDisplay(r *model.Report) displayReport {
	rows := make([]model.DisplayRow, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		rows[i] = rec.Display()
	}
	return displayReport{Details: r.Details, Results: rows, Suppliers: r.Suppliers}
}

func renderReport(w io.Writer, r *model.Report, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return eris.Wrap(enc.Encode(toDisplay(r)), "render json")
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toDisplay(r)); err != nil {
			return eris.Wrap(err, "render yaml")
		}
		return eris.Wrap(enc.Close(), "render yaml")
	case formatCSV:
		return renderCSV(w, r)
	case formatTable:
		renderTable(w, r)
		return nil
	default:
		return checkFormat(format)
	}
}

func renderCSV(w io.Writer, r *model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(displayHeader); err != nil {
		return eris.Wrap(err, "render csv")
	}
	for _, rec := range r.Recommendations {
		d := rec.Display()
		if err := cw.Write([]string{
			d.Region, d.OverallScore, d.ElectricityTariff, d.FixedCharges,
			d.EODBScore, d.LaborScore, d.InfrastructureScore, d.RecommendedZones,
		}); err != nil {
			return eris.Wrap(err, "render csv")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "render csv")
}

func renderTable(w io.Writer, r *model.Report) {
	d := r.Details
	fmt.Fprintf(w, "Industry:          %s (%s electricity intensity)\n", d.Industry, d.ElectricityIntensity)
	fmt.Fprintf(w, "Description:       %s\n", d.Description)
	fmt.Fprintf(w, "Investment scale:  %s\n", d.InvestmentScale)
	fmt.Fprintf(w, "Preferred region:  %s\n\n", d.PreferredRegion)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTATE/UT\tSCORE\tTARIFF\tFIXED\tEODB\tLABOR\tINFRA\tZONES")
	for i, rec := range r.Recommendations {
		row := rec.Display()
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, row.Region, row.OverallScore, row.ElectricityTariff, row.FixedCharges,
			row.EODBScore, row.LaborScore, row.InfrastructureScore, row.RecommendedZones,
		)
	}
	tw.Flush()

	if len(r.Suppliers) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSuppliers:")
	for _, rec := range r.Recommendations {
		sups, ok := r.Suppliers[rec.Region]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s:\n", rec.Region)
		if len(sups) == 0 {
			fmt.Fprintln(w, "    (none listed)")
		}
		for _, s := range sups {
			fmt.Fprintf(w, "    %s\n", s)
		}
	}
}

func renderSuppliers(w io.Writer, sups []model.Supplier) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMATERIAL\tPROCESS\tCITY\tCONTACT")
	for _, s := range sups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Material, s.Process, s.City, s.Contact)
	}
	tw.Flush()
}

func renderAnalyses(w io.Writer, list []model.Analysis) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tINDUSTRY\tSCALE\tPREFERRED\tTOP REGION")
	for _, a := range list {
		id := a.ID
		if len(id) > 8 {
			id = id[:8]
		}
		pref := a.PreferredRegion
		if pref == "" {
			pref = "-"
		}
		top := "-"
		if len(a.Report.Recommendations) > 0 {
			top = a.Report.Recommendations[0].Region
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			id, a.CreatedAt.Format("2006-01-02 15:04"), a.Industry, a.Scale, pref, top)
	}
	tw.Flush()
}
