package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"charm.land/log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yeeaiclub/fastoverlay/internal/config"
)

var (
	configPath string
	logLevel   string

	conf   = config.Default()
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "fastoverlay"})
)

var rootCmd = &cobra.Command{
	Use:           "fastoverlay",
	Short:         "Modal lifecycle and stacking engine for terminal UIs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		level := conf.LogLevel()
		if cmd.Flags().Changed("log-level") {
			parsed, err := log.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			level = parsed
		}
		logger.SetLevel(level)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "err", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(normalizeFlag)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (.toml, .yaml); defaults to "+config.DefaultPath())
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func loadConfig() error {
	var err error
	if configPath != "" {
		conf, err = config.Load(configPath)
	} else {
		conf, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return nil
}

// normalizeFlag accepts snake_case spellings of flags, matching config keys.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
