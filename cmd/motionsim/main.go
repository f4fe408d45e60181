package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/motionsim/internal/logging"
	"github.com/san-kum/motionsim/internal/viz"
)

var (
	settingsFile string
	configFile   string
	preset       string
	dt           float64
	duration     float64
	stopAtRest   bool
	outPath      string
	svgWidth     int
	svgHeight    int
	tension      string
	friction     string
	tuneTarget   float64
	tuneMetric   string
	plotEntity   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motionsim",
		Short: "ui motion engine playground",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker(pickerEntries())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "settings file (default ./motionsim.yaml or ~/.motionsim/motionsim.yaml)")
	flags.String("data", ".motionsim", "data directory")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("theme", "ocean", "live view theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	_ = viper.BindPFlag("data_dir", flags.Lookup("data"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("theme", flags.Lookup("theme"))

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position and speed of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotEntity, "entity", "", "only plot this entity")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list scenarios and their presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario in the terminal at 60 fps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the trajectories of a saved run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid-search spring tension and friction",
		RunE:  tuneSpring,
	}
	tuneCmd.Flags().StringVar(&tension, "tension", "100:300:5", "tension grid lo:hi:n")
	tuneCmd.Flags().StringVar(&friction, "friction", "10:40:7", "friction grid lo:hi:n")
	tuneCmd.Flags().Float64Var(&tuneTarget, "target", 100, "distance to travel")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "settle_time", "metric to minimise (settle_time, overshoot)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, presetsCmd, liveCmd, exportJSONCmd, exportSVGCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scenario")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60, "frame interval")
	cmd.Flags().Float64Var(&duration, "time", 3.0, "duration")
	cmd.Flags().BoolVar(&stopAtRest, "stop-at-rest", false, "stop once everything is at rest")
}

// loadSettings reads the optional settings file and MOTIONSIM_* variables.
func loadSettings() error {
	viper.SetDefault("data_dir", ".motionsim")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("theme", "ocean")

	viper.SetEnvPrefix("motionsim")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if settingsFile != "" {
		viper.SetConfigFile(settingsFile)
	} else {
		viper.SetConfigName("motionsim")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home + "/.motionsim")
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || settingsFile != "" {
			return fmt.Errorf("read settings: %w", err)
		}
	}
	viz.SetTheme(viper.GetString("theme"))
	return nil
}

func logger() zerolog.Logger {
	if viper.GetString("log_format") == "json" {
		return logging.JSON(viper.GetString("log_level"), os.Stderr)
	}
	return logging.New(viper.GetString("log_level"), os.Stderr)
}

func dataDir() string { return viper.GetString("data_dir") }
