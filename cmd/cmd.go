// Package cmd defines the command-line interface for kpitrend.
package cmd

import (
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sheetCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the sheet subcommands to the parent sheet command
	sheetCmd.AddCommand(sheetSeedCmd)
	sheetCmd.AddCommand(sheetStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "KPI sheet backend: sqlite or mysql or postgresql or sheets")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Connection string for the KPI sheet (SQLite path, MySQL DSN or PostgreSQL keywords)")
	rootCmd.PersistentFlags().String("sheets-credentials", "", "Path to a Google service account JSON file (sheets backend)")
	rootCmd.PersistentFlags().String("sheets-spreadsheet-id", "", "Google spreadsheet ID (sheets backend)")
	rootCmd.PersistentFlags().String("sheets-worksheet", contract.DefaultWorksheet, "Worksheet title holding the KPIs (sheets backend)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Connection string for run tracking (must differ from store-db-connect)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Report format: text or json or csv")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("pace", contract.DefaultPace.String(), "Delay per printed character on a terminal, e.g. 10ms (0 disables)")
	rootCmd.PersistentFlags().Int("max-attempts", contract.DefaultMaxAttempts, "Attempts per question before giving up (0 = unbounded)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostics level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("date", "", "Date of the recorded row in DD/MM/YYYY format")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of sheetSeedCmd to Viper
	sheetSeedCmd.Flags().String("start", "", "First date to add in DD/MM/YYYY format")
	sheetSeedCmd.Flags().String("end", "", "Last date to add in DD/MM/YYYY format")
	if err := viper.BindPFlags(sheetSeedCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sheet seed flags", err)
	}
}
