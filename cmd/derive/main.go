package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/delaneyj/signallist/derive"
	"github.com/delaneyj/signallist/reconcile"
	"github.com/delaneyj/signallist/signals"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	fileKey    = "file"
	verboseKey = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:  "derive",
		Usage: "Run a derived collection described in YAML and print every reconciliation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     fileKey,
				Aliases:  []string{"f"},
				Usage:    "Descriptor file",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log every plan",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger, err := newLogger(cmd.Bool(verboseKey))
			if err != nil {
				return err
			}
			defer logger.Sync()

			fd, err := loadDescriptor(cmd.String(fileKey))
			if err != nil {
				return err
			}
			return runDescriptor(os.Stdout, logger, fd)
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// runDescriptor renders the initial source and then every step. Handles are
// creation counters, so a reused row keeps its number across steps.
func runDescriptor(w io.Writer, logger *zap.Logger, fd *fileDescriptor) error {
	var failure error
	rs := signals.NewReactiveSystem(
		signals.WithLogger(logger),
		signals.WithTick(signals.Immediate),
		signals.WithOnError(func(_ signals.SignalAware, err error) {
			if failure == nil {
				failure = err
			}
		}),
	)

	source := signals.Signal(rs, fd.Source).Named("source")
	desc, err := fd.descriptor(source)
	if err != nil {
		return err
	}
	p := derive.New(rs, desc)
	defer p.Dispose()

	nextHandle := 0
	opts := []reconcile.Option{reconcile.WithLogger(logger)}
	if fd.Key != "" {
		opts = append(opts, reconcile.WithKey(fd.Key))
	}
	r := reconcile.NewReconciler(func(any, int) int {
		nextHandle++
		return nextHandle
	}, nil, opts...)
	stop := reconcile.Bind(rs, p.Output(), r)
	defer stop()

	updates := 0
	render := func(title string) error {
		if failure != nil {
			return failure
		}
		renderRecords(w, title, r.Records())
		if r.Updates() == updates {
			fmt.Fprintln(w, "output unchanged")
			return nil
		}
		updates = r.Updates()
		renderStats(w, r.Last().Stats())
		return nil
	}

	if err := render("initial"); err != nil {
		return err
	}
	for i, step := range fd.Steps {
		source.SetValue(step)
		if err := render(fmt.Sprintf("step %d", i+1)); err != nil {
			return err
		}
	}
	return nil
}

func renderRecords(w io.Writer, title string, records []reconcile.Record[int]) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "handle", "item"})
	for i, rec := range records {
		t.AppendRow(table.Row{i, rec.Handle, fmt.Sprint(rec.Source)})
	}
	t.Render()
}

func renderStats(w io.Writer, s reconcile.Stats) {
	fmt.Fprintf(w, "reused %s, created %s, removed %s, moved %s\n",
		humanize.Comma(int64(s.Reused)),
		humanize.Comma(int64(s.Created)),
		humanize.Comma(int64(s.Removed)),
		humanize.Comma(int64(s.Moved)),
	)
}
