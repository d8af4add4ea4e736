package signals_test

import (
	"testing"

	"github.com/delaneyj/signallist/signals"
	"github.com/stretchr/testify/assert"
)

// newSystem flushes after every write and fails the test on any reported error.
func newSystem(t *testing.T, opts ...signals.Option) *signals.ReactiveSystem {
	t.Helper()
	defaults := []signals.Option{
		signals.WithTick(signals.Immediate),
		signals.WithOnError(func(from signals.SignalAware, err error) {
			assert.FailNow(t, err.Error())
		}),
	}
	return signals.NewReactiveSystem(append(defaults, opts...)...)
}

// newManualSystem only evaluates watched cells when the test calls Flush, the
// way a host with its own tick boundary drives the graph.
func newManualSystem(t *testing.T, opts ...signals.Option) *signals.ReactiveSystem {
	t.Helper()
	defaults := []signals.Option{
		signals.WithOnError(func(from signals.SignalAware, err error) {
			assert.FailNow(t, err.Error())
		}),
	}
	return signals.NewReactiveSystem(append(defaults, opts...)...)
}

// collectErrors returns a system that records reported errors instead of failing.
func collectErrors(opts ...signals.Option) (*signals.ReactiveSystem, *[]error) {
	errs := &[]error{}
	defaults := []signals.Option{
		signals.WithTick(signals.Immediate),
		signals.WithOnError(func(from signals.SignalAware, err error) {
			*errs = append(*errs, err)
		}),
	}
	return signals.NewReactiveSystem(append(defaults, opts...)...), errs
}
