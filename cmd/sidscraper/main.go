// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sidscraper CLI.
//
// sidscraper reads the plant family list from The Plant List, queries the
// Kew Seed Information Database for each family, and writes the seed
// traits it finds as a semicolon-separated table.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/sidscraper/internal/catalog"
	"github.com/pdiddy/sidscraper/internal/sid"
	"github.com/pdiddy/sidscraper/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --log-level before any command runs.
var logger = slog.Default()

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 2
	defaultFamilyDelay = 10 * time.Second
)

// rootCmd runs the full harvest.
var rootCmd = &cobra.Command{
	Use:   "sidscraper",
	Short: "Harvest seed traits for plant families from the Seed Information Database",
	Long: `sidscraper builds a list of plant families from The Plant List, fetches
each family's page from the Kew Seed Information Database, and writes mean
seed weight, oil content, protein content, and salt tolerance for every
taxon found to <directory>/<filename>.csv.

Requests are rate limited: the family list is read with a pause between
groups and each family is followed by a longer pause, so a full run takes
several hours.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
	RunE: runHarvest,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./sidscraper.yaml or ~/.config/sidscraper/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, or error")
	pf.Duration("timeout", defaultTimeout, "timeout for each HTTP request attempt")
	pf.Int("attempts", defaultMaxAttempts, "attempts per request when requests time out")
	pf.Duration("group-delay", catalog.DefaultGroupDelay, "delay between family list requests")
	pf.String("plantlist-url", catalog.DefaultBaseURL, "base URL of The Plant List")
	pf.StringSlice("groups", catalog.DefaultGroups, "major-group letters to read families from")

	f := rootCmd.Flags()
	f.StringP("directory", "d", "", "directory to save the output file (must exist)")
	f.StringP("filename", "n", "", "name of the output file, without extension (default sidscraper_output)")
	f.String("db", "", "also export the table into this SQLite database")
	f.Int("preview", 0, "print the first N rows as a table when done")
	f.Duration("family-delay", defaultFamilyDelay, "delay after each family request")
	f.String("sid-url", sid.DefaultBaseURL, "base URL of the Seed Information Database")

	mustBind(pf, persistentBindings)
	mustBind(f, localBindings)
}

// persistentBindings maps viper keys to persistent root flags.
var persistentBindings = map[string]string{
	"log_level":           "log-level",
	"http.timeout":        "timeout",
	"http.max_attempts":   "attempts",
	"catalog.group_delay": "group-delay",
	"catalog.base_url":    "plantlist-url",
	"catalog.groups":      "groups",
}

// localBindings maps viper keys to flags local to the harvest command.
var localBindings = map[string]string{
	"output.directory":     "directory",
	"output.filename":      "filename",
	"output.db_path":       "db",
	"harvest.family_delay": "family-delay",
	"harvest.base_url":     "sid-url",
}

// bindFlags ties each viper key to its flag in fs.
func bindFlags(fs *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		fl := fs.Lookup(name)
		if fl == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, name)
		}
		if err := viper.BindPFlag(key, fl); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

func mustBind(fs *pflag.FlagSet, bindings map[string]string) {
	if err := bindFlags(fs, bindings); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sidscraper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sidscraper"))
		}
	}

	viper.SetEnvPrefix("SIDSCRAPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// runConfig assembles the run configuration from flags, environment, and
// config file.
func runConfig() types.RunConfig {
	return types.RunConfig{
		HTTP: types.HTTPConfig{
			Timeout:     viper.GetDuration("http.timeout"),
			MaxAttempts: viper.GetInt("http.max_attempts"),
		},
		Catalog: types.CatalogConfig{
			BaseURL:    viper.GetString("catalog.base_url"),
			Groups:     viper.GetStringSlice("catalog.groups"),
			GroupDelay: viper.GetDuration("catalog.group_delay"),
		},
		Harvest: types.HarvestConfig{
			BaseURL:     viper.GetString("harvest.base_url"),
			FamilyDelay: viper.GetDuration("harvest.family_delay"),
		},
		Output: types.OutputConfig{
			Directory: viper.GetString("output.directory"),
			FileName:  viper.GetString("output.filename"),
			DBPath:    viper.GetString("output.db_path"),
		},
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
