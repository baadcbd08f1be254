package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the industries, investment scales and regions the scorer knows",
}

var catalogIndustriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List industry profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "INDUSTRY\tINTENSITY\tELECTRICITY WEIGHT\tPREFERRED ZONES\tDESCRIPTION")
		for _, ind := range newAnalyzer().Industries() {
			zones := make([]string, len(ind.PreferredZones))
			for i, z := range ind.PreferredZones {
				zones[i] = z.Code()
			}
			fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\n",
				ind.Name, ind.Intensity, ind.ElectricityWeight, strings.Join(zones, ","), ind.Description)
		}
		return tw.Flush()
	},
}

var catalogScalesCmd = &cobra.Command{
	Use:   "scales",
	Short: "List investment scales and their factor weights",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SCALE\tRANGE\tELECTRICITY\tLABOR\tEODB\tINFRASTRUCTURE")
		for _, sc := range newAnalyzer().Scales() {
			w := sc.Weights
			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
				sc.Name, sc.Range, w.Electricity, w.Labor, w.EaseOfBusiness, w.Infrastructure)
		}
		return tw.Flush()
	},
}

var catalogRegionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List ranked states and union territories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, r := range newAnalyzer().Regions() {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogIndustriesCmd, catalogScalesCmd, catalogRegionsCmd)
	rootCmd.AddCommand(catalogCmd)
}
