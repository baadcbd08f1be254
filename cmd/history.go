package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/plant-locator/internal/store"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		list, err := st.ListAnalyses(ctx, historyLimit)
		if err != nil {
			return eris.Wrap(err, "history list")
		}
		if len(list) == 0 {
			cmd.PrintErrln("No saved analyses.")
			return nil
		}
		renderAnalyses(cmd.OutOrStdout(), list)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <analysis-id>",
	Short: "Show a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := checkFormat(historyFormat); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		a, err := st.GetAnalysis(ctx, args[0])
		if eris.Is(err, store.ErrNotFound) {
			return eris.Errorf("no saved analysis with id %s", args[0])
		}
		if err != nil {
			return eris.Wrap(err, "history show")
		}
		return renderReport(cmd.OutOrStdout(), &a.Report, historyFormat)
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", store.DefaultListLimit, "maximum analyses to list")
	historyShowCmd.Flags().StringVar(&historyFormat, "format", formatTable, "output format: table, json, yaml or csv")

	historyCmd.AddCommand(historyListCmd, historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
