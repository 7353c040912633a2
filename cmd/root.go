package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/grocito/earnings/internal/models"
	"github.com/grocito/earnings/internal/reporter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "grocito-earnings",
	Short: "Computes delivery-partner earnings for the Grocito platform",
	Long:  `grocito-earnings is a CLI tool that turns delivered-order records into per-order payouts, daily summaries and partner earnings statements, applying the platform's base-fee, peak-hour, weekend and daily-target rules.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		rep, err := reporter.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing reporter: %v\n", err)
			os.Exit(1)
		}
		defer rep.Close()

		if err := rep.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error running earnings report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.Flags().String("start-date", time.Now().AddDate(0, 0, -7).Format(time.RFC3339), "Start of the reporting window")
	rootCmd.Flags().String("end-date", time.Now().Format(time.RFC3339), "End of the reporting window (exclusive)")
	rootCmd.Flags().String("partner-id", "", "Report on a single delivery partner")
	rootCmd.Flags().String("timezone", "", "Reporting timezone (IANA name, defaults to local)")
	rootCmd.Flags().String("source", "demo", "Order source: postgres, file or demo")
	rootCmd.Flags().String("input-file", "", "Path to a JSON order export (source=file)")
	rootCmd.Flags().Bool("fallback-enabled", true, "Substitute tagged demo data when the order source fails")
	rootCmd.Flags().Int64("seed", 42, "Random seed for fabricated data")
	rootCmd.Flags().Int("demo-partners", 10, "Number of fabricated partners (source=demo)")
	rootCmd.Flags().Int("demo-orders-per-day", 8, "Fabricated deliveries per partner per day")
	rootCmd.Flags().Bool("kafka-enabled", false, "Enable Kafka output")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().String("output-format", "", "Output format: json, csv, parquet or postgres")
	rootCmd.Flags().String("output-path", "", "Output directory (if not using Kafka)")

	// flag names use dashes, config keys use underscores
	flagKeys := map[string]string{
		"start_date":          "start-date",
		"end_date":            "end-date",
		"partner_id":          "partner-id",
		"timezone":            "timezone",
		"source":              "source",
		"input_file":          "input-file",
		"fallback_enabled":    "fallback-enabled",
		"seed":                "seed",
		"demo_partners":       "demo-partners",
		"demo_orders_per_day": "demo-orders-per-day",
		"kafka_enabled":       "kafka-enabled",
		"kafka_broker_list":   "kafka-broker-list",
		"output_format":       "output-format",
		"output_path":         "output-path",
	}
	for key, flag := range flagKeys {
		viper.BindPFlag(key, rootCmd.Flags().Lookup(flag))
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
