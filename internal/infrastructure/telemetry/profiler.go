package telemetry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// Profile label keys
const (
	ProfilingLabelModule    = "module"
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
	ProfilingLabelCompanyID = "company_id"
	ProfilingLabelJob       = "job"
)

// MaxLabelValueLength truncates label values
const MaxLabelValueLength = 128

// perRequestLabels would give every request its own profile series
var perRequestLabels = []string{"user_id", "request_id", "trace_id", "span_id", "invoice_id"}

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler pushes continuous profiles to Pyroscope. The zero Profiler is
// disabled.
type Profiler struct {
	once     sync.Once
	profiler *pyroscope.Profiler
	logger   *zap.Logger
}

func NewProfiler(cfg Config, logger *zap.Logger) (*Profiler, error) {
	if !cfg.ProfilingEnabled {
		return &Profiler{logger: logger}, nil
	}
	if cfg.ProfilingServer == "" {
		return nil, errors.New("profiling is enabled but no profiling server is set")
	}

	var tags map[string]string
	if host, err := os.Hostname(); err == nil {
		tags = map[string]string{"hostname": host}
	}
	prof, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.ProfilingServer,
		Logger:          logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	logger.Info("Pyroscope profiler started", zap.String("server_address", cfg.ProfilingServer))
	return &Profiler{profiler: prof, logger: logger}, nil
}

func (p *Profiler) IsEnabled() bool {
	return p != nil && p.profiler != nil
}

// Stop flushes pending profiles. Later calls do nothing.
func (p *Profiler) Stop() error {
	if !p.IsEnabled() {
		return nil
	}
	var err error
	p.once.Do(func() { err = p.profiler.Stop() })
	if err != nil {
		return fmt.Errorf("stop pyroscope: %w", err)
	}
	return nil
}

// WithProfilingLabels runs fn with labels attached to its goroutine's
// samples. Blank and per-request labels are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeLabels flattens labels into key, value pairs ordered by key
func sanitizeLabels(labels map[string]string) []string {
	var pairs []string
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		v := labels[k]
		if k == "" || strings.TrimSpace(v) == "" || slices.Contains(perRequestLabels, k) {
			continue
		}
		pairs = append(pairs, k, v[:min(len(v), MaxLabelValueLength)])
	}
	return pairs
}
