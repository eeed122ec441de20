package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sqlsim/internal/config"
	"sqlsim/internal/db"
	"sqlsim/internal/metrics"
	"sqlsim/internal/runner"
	"sqlsim/internal/util"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults when empty)")
	seed := flag.Int64("seed", 0, "override the run seed")
	steps := flag.Int("steps", 0, "override the number of steps")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "steps":
			cfg.Steps = *steps
		}
	})
	util.SetVerbose(cfg.Logging.Verbose)
	if cfg.Logging.LogFile != "" {
		closer, err := util.TeeLogFile(cfg.Logging.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(2)
		}
		defer util.CloseWithErr(closer, "log file")
	}
	if data, err := yaml.Marshal(&cfg); err == nil {
		util.Highlightf("config:\n%s", string(data))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		var mismatch *runner.MismatchError
		if errors.As(err, &mismatch) {
			util.Errorf("replay with: sqlsim -seed %d -steps %d", mismatch.Seed, mismatch.Step+1)
			stop()
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		stop()
		os.Exit(2)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if err := db.EnsureDatabase(ctx, cfg.Driver, cfg.DSN); err != nil {
		return errors.Wrap(err, "ensure database")
	}
	exec, err := db.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	defer util.CloseWithErr(exec, "db")

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen); err != nil {
				util.Warnf("metrics endpoint stopped: %v", err)
			}
		}()
	}
	util.Infof("starting sqlsim seed=%d", cfg.Seed)
	return runner.New(cfg, exec, m).Run(ctx)
}
