package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/d-chambers/simplefire/internal/calculation"
	"github.com/d-chambers/simplefire/internal/config"
	"github.com/d-chambers/simplefire/internal/domain"
	"github.com/d-chambers/simplefire/internal/output"
	"github.com/d-chambers/simplefire/internal/tui"
)

// cliLogger implements calculation.Logger on top of the structured logger.
type cliLogger struct {
	logger log.Logger
}

func newCLILogger(debugMode bool) cliLogger {
	level := log.InfoLevel
	if debugMode {
		level = log.DebugLevel
	}
	return cliLogger{logger: log.Logger{
		Level:      level,
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}}
}

func (l cliLogger) Debugf(format string, args ...any) { l.logger.Debug().Msgf(format, args...) }
func (l cliLogger) Infof(format string, args ...any)  { l.logger.Info().Msgf(format, args...) }
func (l cliLogger) Warnf(format string, args ...any)  { l.logger.Warn().Msgf(format, args...) }
func (l cliLogger) Errorf(format string, args ...any) { l.logger.Error().Msgf(format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "simplefire %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// loadPlan reads the plan file when one is given, otherwise falls back to
// the built-in example plan.
func loadPlan(args []string) (*domain.Plan, error) {
	if len(args) == 0 {
		plan := config.DefaultPlan()
		return &plan, nil
	}
	parser := config.NewInputParser()
	return parser.LoadFromFile(args[0])
}

func runSimulation(plan *domain.Plan, debugMode bool) (*domain.FirePlan, error) {
	strategy, err := calculation.NewTaxEvasionStrategy(*plan)
	if err != nil {
		return nil, err
	}
	if debugMode {
		strategy.SetLogger(newCLILogger(true))
	}
	return strategy.StartFire()
}

var rootCmd = &cobra.Command{
	Use:   "simplefire",
	Short: "FIRE planning simulator",
	Long:  "Simulates a household's path to financial independence with tax-minimizing account sequencing",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan-file]",
	Short: "Run a deterministic simulation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args)
		if err != nil {
			return err
		}
		debugMode, _ := cmd.Flags().GetBool("debug")
		result, err := runSimulation(plan, debugMode)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(format)
		if formatter == nil {
			return fmt.Errorf("unknown format %q (available: %s)",
				format, strings.Join(output.AvailableFormatAliases(), ", "))
		}
		data, err := formatter.Format(result)
		if err != nil {
			return err
		}

		outFile, _ := cmd.Flags().GetString("output")
		if outFile != "" {
			return os.WriteFile(outFile, data, 0o644)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo [plan-file]",
	Short: "Run a Monte Carlo sweep over market growth",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args)
		if err != nil {
			return err
		}

		seed, _ := cmd.Flags().GetInt64("seed")
		mcConfig := calculation.DefaultMonteCarloConfig(seed)
		if sims, _ := cmd.Flags().GetInt("simulations"); sims > 0 {
			mcConfig.Simulations = sims
		}
		if stddev, _ := cmd.Flags().GetFloat64("stddev"); stddev > 0 {
			mcConfig.GrowthStdDevPct = decimal.NewFromFloat(stddev)
		}

		result, err := calculation.RunMonteCarlo(*plan, mcConfig)
		if err != nil {
			return err
		}

		fmt.Printf("Simulations:    %d\n", mcConfig.Simulations)
		fmt.Printf("Success rate:   %s%%\n", result.SuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(1))
		if result.SuccessRate.IsPositive() {
			fmt.Printf("Retirement year percentiles:\n")
			fmt.Printf("  p10: %d\n", result.RetirementYears.P10)
			fmt.Printf("  p50: %d\n", result.RetirementYears.P50)
			fmt.Printf("  p90: %d\n", result.RetirementYears.P90)
		}
		return nil
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot [plan-file]",
	Short: "Render the projection as a PNG chart",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args)
		if err != nil {
			return err
		}
		result, err := runSimulation(plan, false)
		if err != nil {
			return err
		}

		png, err := output.RenderGrowthChart(result)
		if err != nil {
			return err
		}
		outFile, _ := cmd.Flags().GetString("output")
		if err := os.WriteFile(outFile, png, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outFile)
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [plan-file]",
	Short: "Explore the plan in an interactive dashboard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args)
		if err != nil {
			return err
		}
		program := tea.NewProgram(tui.NewModel(*plan), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	simulateCmd.Flags().StringP("format", "f", "console", "output format (console, csv, chart)")
	simulateCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	simulateCmd.Flags().Bool("debug", false, "enable debug logging")

	montecarloCmd.Flags().Int("simulations", 1000, "number of simulation runs")
	montecarloCmd.Flags().Int64("seed", 42, "random seed")
	montecarloCmd.Flags().Float64("stddev", 2.0, "growth rate standard deviation in percent")

	plotCmd.Flags().StringP("output", "o", "fire.png", "output PNG path")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(montecarloCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
