package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/signallist/signals"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	repeatsKey = "repeats"
	onlyKey    = "only"
	verboseKey = "verbose"
)

var perfTestCfgs = []benchmarkTestConfig{
	{
		name:           "simple component",
		width:          10,
		staticFraction: 1,
		nSources:       2,
		totalLayers:    5,
		readFraction:   0.2,
		iterations:     600000,
	},
	{
		name:           "dynamic component",
		width:          10,
		totalLayers:    10,
		staticFraction: 0.75,
		nSources:       6,
		readFraction:   0.2,
		iterations:     15000,
	},
	{
		name:           "large web app",
		width:          1000,
		totalLayers:    12,
		staticFraction: 0.95,
		nSources:       4,
		readFraction:   1,
		iterations:     7000,
	},
	{
		name:           "wide dense",
		width:          1000,
		totalLayers:    5,
		staticFraction: 1,
		nSources:       25,
		readFraction:   1,
		iterations:     3000,
	},
	{
		name:           "deep",
		width:          5,
		totalLayers:    500,
		staticFraction: 1,
		nSources:       3,
		readFraction:   1,
		iterations:     500,
	},
	{
		name:           "very dynamic",
		width:          100,
		totalLayers:    15,
		staticFraction: 0.5,
		nSources:       6,
		readFraction:   1,
		iterations:     2000,
	},
}

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_graph",
		Usage: "Randomized layered graphs of static and dynamic computed cells",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  repeatsKey,
				Usage: "Timed runs per config, the best one is reported",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  onlyKey,
				Usage: "Run only the config with this name",
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

type results struct {
	sum      int
	count    int64
	duration time.Duration
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool(verboseKey))
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting graph benchmark, please wait")
	defer logger.Info("finished graph benchmark")

	testRepeats := int(cmd.Int(repeatsKey))
	only := cmd.String(onlyKey)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "sum",
		"updateRate", "title",
	})

	for _, cfg := range perfTestCfgs {
		if only != "" && cfg.name != only {
			continue
		}
		log := logger.With(zap.String("config", cfg.name))
		log.Info("running config")

		counter := new(int64)
		rs := signals.NewReactiveSystem(
			signals.WithLogger(logger),
			signals.WithOnError(func(from signals.SignalAware, err error) {
				log.Fatal("graph failed", zap.Error(err))
			}),
		)
		graph := benchmarkMakeGraph(&benchmarkMakeGraphConfig{
			rs:             rs,
			counter:        counter,
			width:          cfg.width,
			totalLayers:    cfg.totalLayers,
			nSources:       cfg.nSources,
			staticFraction: cfg.staticFraction,
		})

		runOnce := func() int {
			return benchmarkRunGraph(&benchmarkRunGraphConfig{
				rs:           rs,
				graph:        graph,
				iteration:    cfg.iterations,
				readFraction: cfg.readFraction,
			})
		}
		// warm up
		runOnce()

		best := &results{duration: time.Hour}
		for i := 0; i < testRepeats; i++ {
			*counter = 0
			start := time.Now()
			sum := runOnce()
			duration := time.Since(start)
			log.Debug("run",
				zap.Int("repeat", i+1),
				zap.Int("sum", sum),
				zap.Int64("count", *counter),
				zap.Duration("took", duration),
			)

			if duration < best.duration {
				best.duration = duration
				best.sum = sum
				best.count = *counter
			}
		}

		updateRate := float64(best.count) / (float64(best.duration) / float64(time.Millisecond))
		table.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(best.duration),
			humanize.Comma(int64(best.sum)),
			humanize.Comma(int64(updateRate)),
			cfg.title(),
		})
	}
	table.Render()
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

type benchmarkTestConfig struct {
	name           string  // unique
	width          int64   // width of the dependency graph
	totalLayers    int64   // depth of the dependency graph
	staticFraction float64 // fraction of nodes that always read all of their sources
	nSources       int64   // sources read by each node
	readFraction   float64 // fraction of the last layer read in each iteration
	iterations     int64
}

func (cfg benchmarkTestConfig) title() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources))
	if cfg.staticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if cfg.readFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.readFraction))
	}
	return sb.String()
}

type benchmarkGraph struct {
	sources []*signals.WriteableSignal[int]
	layers  [][]*signals.ReadonlySignal[int]
}

type benchmarkMakeGraphConfig struct {
	rs                           *signals.ReactiveSystem
	counter                      *int64
	width, totalLayers, nSources int64
	staticFraction               float64
}

func benchmarkMakeGraph(cfg *benchmarkMakeGraphConfig) *benchmarkGraph {
	sources := make([]*signals.WriteableSignal[int], cfg.width)
	readers := make([]signals.Reader[int], cfg.width)
	for i := range sources {
		sources[i] = signals.Signal(cfg.rs, i)
		readers[i] = sources[i]
	}
	return &benchmarkGraph{
		sources: sources,
		layers: makeBenchmarkDependentRows(&benchmarkMakeDependentRowsConfig{
			rs:             cfg.rs,
			sources:        readers,
			numRows:        cfg.totalLayers - 1,
			counter:        cfg.counter,
			staticFraction: cfg.staticFraction,
			nSources:       cfg.nSources,
		}),
	}
}

type benchmarkRunGraphConfig struct {
	rs           *signals.ReactiveSystem
	graph        *benchmarkGraph
	iteration    int64
	readFraction float64
}

// benchmarkRunGraph writes one source per iteration and reads some or all of
// the leaves. It returns the sum of the leaves read.
func benchmarkRunGraph(cfg *benchmarkRunGraphConfig) int {
	random := rand.New(rand.NewSource(0))
	leaves := cfg.graph.layers[len(cfg.graph.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := benchmarkRemoveElems(leaves, skipCount, random)

	for i := 0; i < int(cfg.iteration); i++ {
		cfg.rs.Batch(func() {
			sourceDex := i % len(cfg.graph.sources)
			cfg.graph.sources[sourceDex].SetValue(i + sourceDex)
		})

		for _, leaf := range readLeaves {
			leaf.Value()
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.Value()
	}
	return sum
}

func benchmarkRemoveElems[T any](src []T, rmCount int, rand *rand.Rand) []T {
	copyWithRemovals := make([]T, len(src))
	copy(copyWithRemovals, src)
	for i := 0; i < rmCount; i++ {
		rmDex := rand.Intn(len(copyWithRemovals))
		copyWithRemovals[rmDex] = copyWithRemovals[len(copyWithRemovals)-1]
		copyWithRemovals = copyWithRemovals[:len(copyWithRemovals)-1]
	}
	return copyWithRemovals
}

type benchmarkMakeDependentRowsConfig struct {
	rs                *signals.ReactiveSystem
	sources           []signals.Reader[int]
	numRows, nSources int64
	counter           *int64
	staticFraction    float64
}

func makeBenchmarkDependentRows(cfg *benchmarkMakeDependentRowsConfig) [][]*signals.ReadonlySignal[int] {
	prevRow := cfg.sources
	random := rand.New(rand.NewSource(0))
	rows := make([][]*signals.ReadonlySignal[int], cfg.numRows)
	for l := int64(0); l < cfg.numRows; l++ {
		row := makeBenchmarkRow(&benchmarkRowConfig{
			rs:             cfg.rs,
			sources:        prevRow,
			counter:        cfg.counter,
			staticFraction: cfg.staticFraction,
			nSources:       cfg.nSources,
			rand:           random,
		})
		rows[l] = row

		prevRow = make([]signals.Reader[int], len(row))
		for i, cell := range row {
			prevRow[i] = cell
		}
	}
	return rows
}

type benchmarkRowConfig struct {
	rs             *signals.ReactiveSystem
	sources        []signals.Reader[int]
	counter        *int64
	staticFraction float64
	nSources       int64
	rand           *rand.Rand
}

func makeBenchmarkRow(cfg *benchmarkRowConfig) []*signals.ReadonlySignal[int] {
	row := make([]*signals.ReadonlySignal[int], len(cfg.sources))

	for myDex := range cfg.sources {
		mySources := make([]signals.Reader[int], 0, cfg.nSources)
		for sourceDex := 0; sourceDex < int(cfg.nSources); sourceDex++ {
			mySources = append(mySources, cfg.sources[(myDex+sourceDex)%len(cfg.sources)])
		}

		if cfg.rand.Float64() < cfg.staticFraction {
			// always reads every source
			row[myDex] = signals.Computed(cfg.rs, func(int) int {
				*cfg.counter++
				sum := 0
				for _, source := range mySources {
					sum += source.Value()
				}
				return sum
			})
			continue
		}

		first := mySources[0]
		tail := mySources[1:]
		row[myDex] = signals.Computed(cfg.rs, func(int) int {
			*cfg.counter++
			sum := first.Value()
			shouldDrop := sum&0x1 > 0
			dropDex := sum % len(tail)

			for i := 0; i < len(tail); i++ {
				if shouldDrop && i == dropDex {
					continue
				}
				sum += tail[i].Value()
			}
			return sum
		})
	}
	return row
}
