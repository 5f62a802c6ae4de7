// Command wavepick selects a picking wave that maximizes units per aisle.
//
//	wavepick solve instance.txt solution.txt
//	wavepick check instance.txt solution.txt
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bartolsthoorn/wavepick/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg   *config.Config
	log   *zap.Logger
	debug bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "wavepick",
		Short:        "Wave order-picking optimizer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := applyFlags(cmd.Flags(), cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log, err = newLogger(cfg.LogLevel, a.debug)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "development logging at debug level")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newSolveCmd(a), newCheckCmd(a))
	return root
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Lookup(name) != nil && fs.Changed(name) {
			err = apply()
		}
	}
	set("log-level", func() (e error) { cfg.LogLevel, e = fs.GetString("log-level"); return })
	set("backend", func() (e error) { cfg.Backend.Name, e = fs.GetString("backend"); return })
	set("enumerate-max-vars", func() (e error) { cfg.Backend.EnumerateMaxVars, e = fs.GetInt("enumerate-max-vars"); return })
	set("highs-threads", func() (e error) { cfg.Backend.HiGHSThreads, e = fs.GetInt("highs-threads"); return })
	set("highs-output", func() (e error) { cfg.Backend.HiGHSOutput, e = fs.GetBool("highs-output"); return })
	set("highs-presolve", func() (e error) { cfg.Backend.HiGHSPresolve, e = fs.GetString("highs-presolve"); return })
	set("time-limit", func() (e error) { cfg.Search.TimeLimit, e = fs.GetDuration("time-limit"); return })
	set("epsilon", func() (e error) { cfg.Search.Epsilon, e = fs.GetFloat64("epsilon"); return })
	set("include-all-aisles", func() (e error) { cfg.Search.IncludeAllAisles, e = fs.GetBool("include-all-aisles"); return })
	set("bound-pruning", func() (e error) { cfg.Search.BoundPruning, e = fs.GetBool("bound-pruning"); return })
	set("redis-url", func() (e error) { cfg.Cache.RedisURL, e = fs.GetString("redis-url"); return })
	set("metrics-addr", func() (e error) { cfg.Metrics.Addr, e = fs.GetString("metrics-addr"); return })
	return err
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	return zc.Build()
}

const shutdownTimeout = 5 * time.Second
