package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/kpitrend/core"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/internal/kpistore"
	"github.com/huangsam/kpitrend/internal/outwriter"
	"github.com/huangsam/kpitrend/internal/prompt"
	"github.com/huangsam/kpitrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// storeManager is the global store manager instance.
var storeManager contract.StoreManager = kpistore.Manager

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Profiling notices go to stderr so they never mix with prompts
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// rootCmd is the command-line entrypoint. Without a subcommand it runs the interactive flow.
var rootCmd = &cobra.Command{
	Use:   "kpitrend",
	Short: "Record daily KPIs and compare them to their 30-day average.",
	Long: `kpitrend asks for a date and the day's KPI values, saves them to the KPI sheet
and reports how each KPI compares to its average over the 30 days before.

Tracked KPIs: App Opens, Screen Views, Ad Views, Threads Created, Swipes.

The sheet can live in SQLite (default), MySQL, PostgreSQL or a Google Sheets worksheet.

Examples:
  # Record today's values interactively
  kpitrend

  # Record into a Google Sheets worksheet
  kpitrend --store-backend sheets --sheets-credentials sa.json --sheets-spreadsheet-id 1AbC...

  # Print the report of a date that was already recorded
  kpitrend report --date 22/02/2022`,
	Version:            version,
	Args:               cobra.NoArgs,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PreRunE:            sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		out := outwriter.OperatorWriter(os.Stdout, cfg.Pace)
		p := prompt.New(os.Stdin, out, prompt.Options{MaxAttempts: cfg.MaxAttempts})
		if err := core.ExecuteRecord(rootCtx, cfg, storeManager, p); err != nil {
			contract.LogFatal("Cannot record KPIs", err)
		}
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("KPITREND")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("sheets-worksheet", contract.DefaultWorksheet)
	viper.SetDefault("runs-backend", "")
	viper.SetDefault("runs-db-connect", "")
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("pace", contract.DefaultPace.String())
	viper.SetDefault("max-attempts", contract.DefaultMaxAttempts)
	viper.SetDefault("log-level", contract.DefaultLogLevel)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".kpitrend") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// configSetup resolves and validates the configuration without opening any store.
func configSetup() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	contract.SetLogLevel(cfg.LogLevel)
	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetup validates config, starts profiling and opens the stores.
func sharedSetup(ctx context.Context, _ *cobra.Command, _ []string) error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	if err := configSetup(); err != nil {
		return err
	}

	// Initialize stores with validated config
	if err := kpistore.InitStores(ctx, cfg); err != nil {
		return fmt.Errorf("%w: %w", contract.ErrCollaboratorUnavailable, err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper wraps configSetup for commands that manage stores themselves.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return configSetup()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
