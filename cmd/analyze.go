package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/plant-locator/internal/dataset"
	"github.com/sells-group/plant-locator/internal/locator"
	"github.com/sells-group/plant-locator/internal/metrics"
	"github.com/sells-group/plant-locator/internal/model"
	"github.com/sells-group/plant-locator/internal/normalize"
	"github.com/sells-group/plant-locator/internal/supplier"
)

var (
	analyzeIndustry  string
	analyzeScale     string
	analyzePreferred string
	analyzeTop       int
	analyzeFormat    string
	analyzeOutput    string
	analyzeSave      bool
	analyzeSuppliers bool
	analyzeMaterials string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank regions for an industry and investment scale",
	Example: `  plant-locator analyze --industry textile --scale small --preferred Gujarat
  plant-locator analyze --industry automotive --scale large --format json --save
  plant-locator analyze --industry textile --scale small --suppliers --materials cotton,dye`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := checkFormat(analyzeFormat); err != nil {
			return err
		}

		report, err := newAnalyzer().Analyze(analyzeIndustry, analyzeScale, analyzePreferred)
		if err != nil {
			return err
		}

		if analyzeSuppliers || analyzeSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			if analyzeSuppliers {
				regions := make([]string, len(report.Recommendations))
				for i, r := range report.Recommendations {
					regions[i] = r.Region
				}
				enricher := supplier.NewEnricher(st, cfg.Enrich,
					supplier.WithMaterials(supplier.ParseMaterials(analyzeMaterials)),
					supplier.WithMetrics(metrics.DefaultRegistry()),
				)
				report.Suppliers = enricher.Enrich(ctx, regions)
			}

			if analyzeSave {
				saved, err := st.SaveAnalysis(ctx, model.Analysis{
					Industry:        normalize.Key(analyzeIndustry),
					Scale:           normalize.Key(analyzeScale),
					PreferredRegion: strings.TrimSpace(analyzePreferred),
					Report:          *report,
				})
				if err != nil {
					return eris.Wrap(err, "analyze: save")
				}
				zap.L().Info("analysis saved", zap.String("id", saved.ID))
				cmd.PrintErrf("Saved analysis %s\n", saved.ID)
			}
		}

		if analyzeOutput != "" {
			return writeReportFile(analyzeOutput, report, analyzeFormat)
		}
		return renderReport(cmd.OutOrStdout(), report, analyzeFormat)
	},
}

// writeReportFile renders the report to path, returning any close error.
func writeReportFile(path string, r *model.Report, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "analyze: create output")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "analyze: close output")
		}
	}()
	return renderReport(f, r, format)
}

// newAnalyzer builds an Analyzer over the embedded dataset. The --top flag,
// when set, overrides the configured top_n.
func newAnalyzer() *locator.Analyzer {
	sc := cfg.Scorer
	if analyzeTop > 0 {
		sc.TopN = analyzeTop
	}
	return locator.New(dataset.Default(), sc, locator.WithMetrics(metrics.DefaultRegistry()))
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeIndustry, "industry", "", "industry type, e.g. textile (required)")
	f.StringVar(&analyzeScale, "scale", "", "investment scale: small, medium or large (required)")
	f.StringVar(&analyzePreferred, "preferred", "", "preferred state or union territory")
	f.IntVar(&analyzeTop, "top", 0, "number of regions to return (default from config)")
	f.StringVar(&analyzeFormat, "format", formatTable, "output format: table, json, yaml or csv")
	f.StringVarP(&analyzeOutput, "output", "o", "", "write output to file instead of stdout")
	f.BoolVar(&analyzeSave, "save", false, "store the analysis in history")
	f.BoolVar(&analyzeSuppliers, "suppliers", false, "attach suppliers from the local directory")
	f.StringVar(&analyzeMaterials, "materials", "", "comma-separated materials to match with --suppliers")
	_ = analyzeCmd.MarkFlagRequired("industry")
	_ = analyzeCmd.MarkFlagRequired("scale")
	rootCmd.AddCommand(analyzeCmd)
}
