package meter

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NVIDIA/opmeter/pkg/config"
	"github.com/NVIDIA/opmeter/pkg/sequence"
)

type record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// captureHandler records every log record, including those of derived loggers.
type captureHandler struct {
	mu      *sync.Mutex
	records *[]record
	attrs   []slog.Attr
}

func newCaptureHandler() *captureHandler {
	return &captureHandler{mu: &sync.Mutex{}, records: &[]record{}}
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := record{Level: r.Level, Message: r.Message, Attrs: map[string]any{}}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	*h.records = append(*h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{mu: h.mu, records: h.records, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) all() []record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]record(nil), *h.records...)
}

// readable returns readable lines, skipping data lines and warnings.
func (h *captureHandler) readable() []record {
	var out []record
	for _, r := range h.all() {
		if r.Attrs["stream"] == "data" || r.Message == "illegal meter call" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (h *captureHandler) data() []record {
	var out []record
	for _, r := range h.all() {
		if r.Attrs["stream"] == "data" {
			out = append(out, r)
		}
	}
	return out
}

func (h *captureHandler) warnings() []record {
	var out []record
	for _, r := range h.all() {
		if r.Message == "illegal meter call" {
			out = append(out, r)
		}
	}
	return out
}

func (h *captureHandler) withPrefix(prefix string) []record {
	var out []record
	for _, r := range h.readable() {
		if strings.HasPrefix(r.Message, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// fakeClock starts at one second and only moves when advanced, plus one
// nanosecond per reading so readings stay strictly increasing.
type fakeClock struct {
	now atomic.Int64
}

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.now.Store(int64(time.Second))
	return c
}

func (c *fakeClock) Now() int64 { return c.now.Add(1) }

func (c *fakeClock) Advance(d time.Duration) { c.now.Add(int64(d)) }

type fixture struct {
	h        *captureHandler
	clock    *fakeClock
	settings *config.Store
	registry *sequence.Registry
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := config.Default()
	s.ProgressPeriod = time.Second
	return &fixture{
		h:        newCaptureHandler(),
		clock:    newFakeClock(),
		settings: config.NewStore(s),
		registry: sequence.NewRegistry(),
		ctx:      WithTracker(context.Background()),
	}
}

func (f *fixture) opts(extra ...Option) []Option {
	return append([]Option{
		WithLogger(slog.New(f.h)),
		WithClock(f.clock.Now),
		WithSettings(f.settings),
		WithRegistry(f.registry),
		WithSessionID("uuid"),
	}, extra...)
}

func (f *fixture) meter(category, operation string, extra ...Option) *Meter {
	return New(f.ctx, category, operation, f.opts(extra...)...)
}

func (f *fixture) update(mut func(s *config.Settings)) {
	s := f.settings.Current()
	mut(&s)
	f.settings.Set(s)
}
