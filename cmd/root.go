// Package cmd implements the gqlc command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "gqlc",
	Short: "gqlc compiles GraphQL documents against a schema",
	Long: `gqlc validates the GraphQL operations and fragments of a project against its schema
and derives the reader, normalization, typegen and operation text programs from them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line and exits with a non-zero status on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "gqlc.yaml", "config is the project configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides the log level of the configuration (debug, info, warn, error)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

// newLogger builds a zap development logger. Filtering is done by zap, so the adapter
// forwards every level.
func newLogger(level string) (abstractlogger.Logger, func(), error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, errors.Errorf("invalid log level %q", level)
	}
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}
	return abstractlogger.NewZapLogger(logger, abstractlogger.DebugLevel), func() { _ = logger.Sync() }, nil
}
