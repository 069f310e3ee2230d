package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "loomctl",
		Short: "Drive the loom HPACK codec: encode, decode, inspect, and capture header streams",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
				logLevel = cfg.LogLevel
			}
			if !cmd.Flags().Changed("log-format") && cfg.LogFormat != "" {
				logFormat = cfg.LogFormat
			}

			l, err := buildLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file with defaults")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newCaptureCmd())

	return root
}

func buildLogger(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	var zl zap.AtomicLevel
	if err := zl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.Level = zl

	return cfg.Build()
}
