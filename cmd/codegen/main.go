package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/delaneyj/signallist/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	genericParamCountKey = "count"
	outputKey            = "out"
	verboseKey           = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate typed ComputedN/EffectN helpers for signals",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  genericParamCountKey,
				Usage: "Number of generic parameters to generate",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outputKey,
				Usage: "Output file",
				Value: "signals/signals_gen.go",
			},
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Development logging",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool(verboseKey))
	if err != nil {
		return err
	}
	defer logger.Sync()

	start := time.Now()
	count := int(cmd.Uint(genericParamCountKey))
	out := cmd.String(outputKey)
	if count < 1 {
		return fmt.Errorf("codegen: %s must be at least 1, got %d", genericParamCountKey, count)
	}

	logger.Info("codegen started", zap.Int("count", count), zap.String("out", out))
	defer func() {
		logger.Info("codegen finished", zap.Duration("took", time.Since(start)))
	}()

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("codegen: %w", err)
	}
	contents := templates.SignalsGen(count)
	if err := os.WriteFile(out, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("codegen: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
