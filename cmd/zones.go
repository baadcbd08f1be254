package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	zonesRegion   string
	zonesIndustry string
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Recommend industrial zones in a region for an industry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		zones, err := newAnalyzer().RecommendZones(zonesRegion, zonesIndustry)
		if err != nil {
			return err
		}
		for _, z := range zones {
			fmt.Fprintln(cmd.OutOrStdout(), z)
		}
		return nil
	},
}

func init() {
	zonesCmd.Flags().StringVar(&zonesRegion, "region", "", "state or union territory (required)")
	zonesCmd.Flags().StringVar(&zonesIndustry, "industry", "", "industry type (required)")
	_ = zonesCmd.MarkFlagRequired("region")
	_ = zonesCmd.MarkFlagRequired("industry")
	rootCmd.AddCommand(zonesCmd)
}
