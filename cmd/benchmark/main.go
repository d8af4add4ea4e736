package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/signallist/derive"
	"github.com/delaneyj/signallist/reconcile"
	"github.com/delaneyj/signallist/signals"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
	verboseKey = "verbose"
)

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100, 1_000}
	sizes = []int{10, 100, 1_000, 10_000}
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Latency tables for propagation, pipelines and reconciliation",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  itersKey,
				Usage: "Samples per row",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Development logging",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool(verboseKey))
	if err != nil {
		return err
	}
	defer logger.Sync()

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("benchmark: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("benchmark: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Int(itersKey))
	logger.Info("warming up", zap.Int("iters", iters))

	benchmarkPropagation(logger, iters)
	benchmarkPipeline(logger, iters)
	benchmarkReconcile(iters)
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

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func addOne(v int) int {
	return v + 1
}

func pass(int) signals.Cleanup {
	return nil
}

func failOn(logger *zap.Logger) signals.Option {
	return signals.WithOnError(func(from signals.SignalAware, err error) {
		logger.Fatal("benchmark graph failed", zap.Error(err))
	})
}

func benchmarkPropagation(logger *zap.Logger, iters int) {
	tbl := newTable("Propagation")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := signals.NewReactiveSystem(signals.WithTick(signals.Immediate), failOn(logger))
			src := signals.Signal(rs, 1)
			for i := 0; i < w; i++ {
				var last signals.Reader[int] = src
				for j := 0; j < h; j++ {
					last = signals.Computed1(rs, last, addOne)
				}
				signals.Effect1(rs, last, pass)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}
			appendCalc(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}
	tbl.Render()
}

func benchmarkPipeline(logger *zap.Logger, iters int) {
	tbl := newTable("Pipeline")

	for _, n := range sizes {
		rs := signals.NewReactiveSystem(failOn(logger))
		items := signals.Signal(rs, makeRows(n, 0))
		footer := signals.Signal(rs, []any{"footer"})
		p := derive.New(rs, derive.Descriptor{
			Source: items,
			Filter: []derive.Filter{{Left: derive.Prop("even"), Op: derive.OpEq, Right: derive.Value(true)}},
			Sort:   []derive.Sort{{Key: derive.Prop("score"), Desc: true}, {Key: derive.Prop("id")}},
			Map:    derive.MustParseTemplate("{{.Index}}: #{{.Item.id}}"),
			Append: footer,
		})
		p.Read()

		source := tachymeter.New(&tachymeter.Config{Size: iters})
		for i := 0; i < iters; i++ {
			next := makeRows(n, i+1)
			start := time.Now()
			items.SetValue(next)
			p.Read()
			source.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("source write: %d items", n), source)

		tail := tachymeter.New(&tachymeter.Config{Size: iters})
		for i := 0; i < iters; i++ {
			start := time.Now()
			footer.SetValue([]any{i})
			p.Read()
			tail.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("append write: %d items", n), tail)
		p.Dispose()
	}
	tbl.Render()
}

func benchmarkReconcile(iters int) {
	tbl := newTable("Reconcile")

	create := func(item any, index int) int { return index }
	for _, n := range sizes {
		if n > 1_000 {
			// the linear scan is quadratic
			continue
		}
		for _, indexed := range []bool{false, true} {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			prev := reconcile.Reconcile(nil, makeRows(n, 0), nil, create, nil)
			for i := 0; i < iters; i++ {
				next := makeRows(n, i+1)
				start := time.Now()
				if indexed {
					prev = reconcile.ReconcileIndexed(prev, next, reconcile.KeyHash("id"), reconcile.KeyEqual("id"), create, nil)
				} else {
					prev = reconcile.Reconcile(prev, next, reconcile.KeyEqual("id"), create, nil)
				}
				tach.AddTime(time.Since(start))
			}
			name := fmt.Sprintf("linear: %d items", n)
			if indexed {
				name = fmt.Sprintf("indexed: %d items", n)
			}
			appendCalc(tbl, name, tach)
		}
	}
	tbl.Render()
}

// makeRows rotates the ids by shift so every update reorders the collection
// and replaces one row.
func makeRows(n, shift int) []any {
	rows := make([]any, n)
	for i := range rows {
		id := (i + shift) % n
		if i == 0 {
			id = n + shift
		}
		rows[i] = map[string]any{
			"id":    id,
			"even":  id%2 == 0,
			"score": id % 7,
		}
	}
	return rows
}
