package metrics

import (
	"time"

	"github.com/chuva-io/less-mcp/internal/version"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "less_mcp"

// Outcome labels for command metrics.
const (
	OutcomeSuccess      = "success"
	OutcomeExitNonZero  = "exit_non_zero"
	OutcomeLaunchFailed = "launch_failed"
	OutcomeInvalid      = "invalid_arguments"
	OutcomeDryRun       = "dry_run"
)

// NewBuildInfoCollector returns a collector that exports metrics about current version
// information.
func NewBuildInfoCollector() prometheus.Collector {
	info := version.Get()
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "less-mcp build metadata exposed as labels with a constant value of 1.",
			ConstLabels: prometheus.Labels{
				"version":    info.Version,
				"git_commit": info.GitCommit,
				"build_date": info.BuildDate,
				"go_version": info.GoVersion,
				"platform":   info.Platform,
			},
		},
		func() float64 { return 1 },
	)
}

// Recorder counts tool invocations. A nil *Recorder discards everything.
type Recorder struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder creates the command collectors and registers them, together
// with the build-info gauge, on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_executions_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Wall time of Less CLI processes.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"tool"}),
	}
	for _, c := range []prometheus.Collector{r.executions, r.duration, NewBuildInfoCollector()} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveCommand records one invocation. d is ignored for outcomes that did
// not run a process.
func (r *Recorder) ObserveCommand(tool, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.executions.WithLabelValues(tool, outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeExitNonZero {
		r.duration.WithLabelValues(tool).Observe(d.Seconds())
	}
}
