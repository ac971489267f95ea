// Package consumer sequences trajectory extraction, reduction and rendering.
//
// A Consumer remembers the last successfully selected subset so callers can
// chain Select, Apply and Render without passing it around. Every failure is
// returned and logged; none of them stop the Consumer from serving the next
// call.
package consumer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/roach88/trajectory/internal/reduce"
	"github.com/roach88/trajectory/internal/trajectory"
)

// DefaultOutput is where Render writes when no output is configured.
var DefaultOutput = filepath.Join(".", "plot.png")

// Renderer draws a subset to a destination path.
type Renderer interface {
	Render(ctx context.Context, sub trajectory.Subset, dest string) error
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOutput sets the path Render writes to.
func WithOutput(path string) Option {
	return func(c *Consumer) {
		if path != "" {
			c.output = path
		}
	}
}

// Consumer drives one store and one renderer.
//
// Thread-safety: the current subset is guarded by a mutex; the store itself is
// read-only after Open.
type Consumer struct {
	store    *trajectory.Store
	renderer Renderer
	logger   *slog.Logger
	output   string

	mu      sync.Mutex
	current trajectory.Subset
}

// New creates a Consumer. renderer may be nil when only reductions are needed.
func New(store *trajectory.Store, renderer Renderer, opts ...Option) *Consumer {
	c := &Consumer{
		store:    store,
		renderer: renderer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		output:   DefaultOutput,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying store.
func (c *Consumer) Store() *trajectory.Store {
	return c.store
}

// Output returns the default render destination.
func (c *Consumer) Output() string {
	return c.output
}

// Select extracts the subset for raw and makes it current. On failure the
// current subset is left as it was.
func (c *Consumer) Select(raw any) (trajectory.Subset, error) {
	sub, err := c.store.Extract(raw)
	if err != nil {
		return trajectory.Subset{}, err
	}

	c.mu.Lock()
	c.current = sub
	c.mu.Unlock()
	return sub, nil
}

// Current returns the current subset and whether one has been selected.
func (c *Consumer) Current() (trajectory.Subset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.current.Active()
}

// Apply reduces the current subset with fn. Without a selection it reports
// NO_ACTIVE_SUBSET.
func Apply[R any](c *Consumer, fn func(trajectory.Subset) (R, error)) (R, error) {
	sub, _ := c.Current()
	return trajectory.Reduce(c.store, sub, fn)
}

// Render draws the current subset to the configured output.
func (c *Consumer) Render(ctx context.Context) error {
	return c.RenderTo(ctx, c.output)
}

// RenderTo draws the current subset to dest.
func (c *Consumer) RenderTo(ctx context.Context, dest string) error {
	sub, ok := c.Current()
	if !ok {
		err := trajectory.NewNoActiveSubsetError("render")
		c.logger.Error("render failed", "error", err)
		return err
	}
	if sub.Empty() {
		err := trajectory.NewEmptySubsetError("render", sub.ObjectID())
		c.logger.Error("render failed", "error", err)
		return err
	}
	if c.renderer == nil {
		err := fmt.Errorf("render: no renderer configured")
		c.logger.Error("render failed", "object_id", sub.ObjectID(), "error", err)
		return err
	}

	if err := c.renderer.Render(ctx, sub, dest); err != nil {
		c.logger.Error("render failed", "object_id", sub.ObjectID(), "error", err)
		return fmt.Errorf("render object_id %d: %w", sub.ObjectID(), err)
	}
	c.logger.Info("plot has been saved", "path", dest, "object_id", sub.ObjectID())
	return nil
}

// Process runs the full sequence for one id: select, summarize, render.
// The summary is returned even when only the render step fails.
func (c *Consumer) Process(ctx context.Context, raw any) (reduce.Summary, error) {
	if _, err := c.Select(raw); err != nil {
		return reduce.Summary{}, err
	}

	summary, err := Apply(c, reduce.Summarize)
	if err != nil {
		return reduce.Summary{}, err
	}

	if err := c.Render(ctx); err != nil {
		return summary, err
	}
	return summary, nil
}
