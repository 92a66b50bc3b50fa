// Package chartgroup coordinates charts that share filters: charts in the
// same named group are redrawn together after any of them changes a filter.
package chartgroup

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// DefaultGroup is the group charts join when none is named.
const DefaultGroup = ""

// Chart is a member of a chart group.
type Chart interface {
	// Anchor identifies the drawing target the chart is attached to.
	Anchor() string
	// Render rebuilds the chart from scratch.
	Render() error
	// Redraw updates the chart in place.
	Redraw() error
}

// Registry tracks chart groups and batches their redraws.
type Registry struct {
	mu      sync.Mutex
	groups  map[string][]Chart
	depth   int
	pending []string
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for redraw diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		groups: make(map[string][]Chart),
		logger: slog.Default().With(slog.String("module", "chartgroup")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds c to group. Registering the same chart twice is a no-op.
func (r *Registry) Register(group string, c Chart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.groups[group], c) {
		return
	}
	r.groups[group] = append(r.groups[group], c)
}

// Deregister removes c from group.
func (r *Registry) Deregister(group string, c Chart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	charts := slices.DeleteFunc(slices.Clone(r.groups[group]), func(x Chart) bool { return x == c })
	if len(charts) == 0 {
		delete(r.groups, group)
		return
	}
	r.groups[group] = charts
}

// Charts returns the members of group in registration order.
func (r *Registry) Charts(group string) []Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.groups[group])
}

// RenderAll renders every chart of group.
func (r *Registry) RenderAll(group string) error {
	var errs []error
	for _, c := range r.Charts(group) {
		if err := c.Render(); err != nil {
			errs = append(errs, fmt.Errorf("render %s: %w", c.Anchor(), err))
		}
	}
	return errors.Join(errs...)
}

// RedrawAll redraws every chart of group. Inside Trigger the redraw is
// deferred until the outermost Trigger returns and runs once per group.
func (r *Registry) RedrawAll(group string) error {
	r.mu.Lock()
	if r.depth > 0 {
		if !slices.Contains(r.pending, group) {
			r.pending = append(r.pending, group)
		}
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()
	return r.redraw(group)
}

func (r *Registry) redraw(group string) error {
	charts := r.Charts(group)
	r.logger.Debug("redraw group", slog.String("group", group), slog.Int("charts", len(charts)))
	var errs []error
	for _, c := range charts {
		if err := c.Redraw(); err != nil {
			errs = append(errs, fmt.Errorf("redraw %s: %w", c.Anchor(), err))
		}
	}
	return errors.Join(errs...)
}

// Trigger runs fn as one user gesture: every RedrawAll requested while fn
// runs is coalesced into a single redraw per group issued after fn returns.
// If fn panics the pending redraws are dropped and the panic propagates.
func (r *Registry) Trigger(fn func()) (err error) {
	r.mu.Lock()
	r.depth++
	r.mu.Unlock()

	done := false
	defer func() {
		pending := r.leave()
		if !done {
			return
		}
		var errs []error
		for _, group := range pending {
			if err := r.redraw(group); err != nil {
				errs = append(errs, err)
			}
		}
		err = errors.Join(errs...)
	}()

	fn()
	done = true
	return nil
}

// leave closes one Trigger level and returns the groups to redraw once the
// outermost level is closed.
func (r *Registry) leave() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depth--
	if r.depth > 0 {
		return nil
	}
	pending := r.pending
	r.pending = nil
	return pending
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by charts that are not
// given one explicitly.
func Default() *Registry {
	return defaultRegistry
}
