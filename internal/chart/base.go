// Package chart implements the lifecycle shared by every chart: anchoring
// to a drawing target, chart group membership, size and margins, the data
// group, and the chart's own filter set.
package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kpumuk/kiqheat/internal/chartgroup"
	"github.com/kpumuk/kiqheat/internal/filters"
)

// ErrMandatoryAttribute is returned when a chart is drawn before a required
// attribute has been configured.
var ErrMandatoryAttribute = errors.New("mandatory attribute is missing")

const (
	defaultWidth              = 200
	defaultHeight             = 200
	defaultTransitionDuration = 750 * time.Millisecond
)

// Group supplies the records a chart draws.
type Group[D any] interface {
	All() []D
}

// GroupFunc adapts a function to Group.
type GroupFunc[D any] func() []D

// All implements Group.
func (f GroupFunc[D]) All() []D {
	return f()
}

// Margins is the space reserved around the drawing area.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// DefaultMargins leaves room for axis labels.
var DefaultMargins = Margins{Top: 10, Right: 50, Bottom: 30, Left: 30}

// Base carries the state common to all charts. D is the datum type and F the
// filter type the chart selects with.
type Base[D any, F comparable] struct {
	anchor             string
	chartGroup         string
	registry           *chartgroup.Registry
	width              int
	height             int
	margins            Margins
	transitionDuration time.Duration
	group              Group[D]
	filters            *filters.Set[F]
	filterHandler      func([]F)
	filteredListeners  []func([]F)
	mandatory          []string
	logger             *slog.Logger
}

// NewBase creates a base chart that coordinates through registry.
func NewBase[D any, F comparable](registry *chartgroup.Registry) *Base[D, F] {
	if registry == nil {
		registry = chartgroup.NewRegistry()
	}
	return &Base[D, F]{
		registry:           registry,
		width:              defaultWidth,
		height:             defaultHeight,
		margins:            DefaultMargins,
		transitionDuration: defaultTransitionDuration,
		filters:            filters.NewSet[F](),
		logger:             slog.Default().With(slog.String("module", "chart")),
	}
}

// Attach binds the chart to a drawing target and registers self, the outer
// chart embedding this base, with the chart group.
func (b *Base[D, F]) Attach(anchor, chartGroup string, self chartgroup.Chart) {
	if b.anchor != "" {
		b.registry.Deregister(b.chartGroup, self)
	}
	b.anchor = anchor
	b.chartGroup = chartGroup
	b.logger = b.logger.With(slog.String("anchor", anchor))
	b.registry.Register(chartGroup, self)
}

// Anchor returns the drawing target identifier.
func (b *Base[D, F]) Anchor() string {
	return b.anchor
}

// ChartGroup returns the name of the group the chart redraws with.
func (b *Base[D, F]) ChartGroup() string {
	return b.chartGroup
}

// Registry returns the chart group registry.
func (b *Base[D, F]) Registry() *chartgroup.Registry {
	return b.registry
}

// Logger returns the chart's logger.
func (b *Base[D, F]) Logger() *slog.Logger {
	return b.logger
}

// SetLogger replaces the chart's logger.
func (b *Base[D, F]) SetLogger(l *slog.Logger) {
	b.logger = l.With(slog.String("anchor", b.anchor))
}

// SetGroup sets the data group.
func (b *Base[D, F]) SetGroup(g Group[D]) {
	b.group = g
}

// Group returns the data group, or nil when unset.
func (b *Base[D, F]) Group() Group[D] {
	return b.group
}

// Data returns the current records. It is nil when no group is configured.
func (b *Base[D, F]) Data() []D {
	if b.group == nil {
		return nil
	}
	return b.group.All()
}

// SetMandatoryAttributes names attributes that must be configured before
// the chart draws. Only "group" is known.
func (b *Base[D, F]) SetMandatoryAttributes(names ...string) {
	b.mandatory = names
}

// CheckMandatory returns an error wrapping ErrMandatoryAttribute for the
// first required attribute that is not configured.
func (b *Base[D, F]) CheckMandatory() error {
	for _, name := range b.mandatory {
		switch name {
		case "group":
			if b.group == nil {
				return fmt.Errorf("%w: %s.group", ErrMandatoryAttribute, b.anchorName())
			}
		default:
			return fmt.Errorf("%w: unknown attribute %q", ErrMandatoryAttribute, name)
		}
	}
	return nil
}

func (b *Base[D, F]) anchorName() string {
	if b.anchor == "" {
		return "chart"
	}
	return b.anchor
}

// SetSize sets the outer width and height.
func (b *Base[D, F]) SetSize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
}

// Width returns the outer width.
func (b *Base[D, F]) Width() int {
	return b.width
}

// Height returns the outer height.
func (b *Base[D, F]) Height() int {
	return b.height
}

// SetMargins sets the margins.
func (b *Base[D, F]) SetMargins(m Margins) {
	b.margins = m
}

// Margins returns the margins.
func (b *Base[D, F]) Margins() Margins {
	return b.margins
}

// EffectiveWidth is the width left for drawing inside the margins.
func (b *Base[D, F]) EffectiveWidth() int {
	return max(b.width-b.margins.Left-b.margins.Right, 0)
}

// EffectiveHeight is the height left for drawing inside the margins.
func (b *Base[D, F]) EffectiveHeight() int {
	return max(b.height-b.margins.Top-b.margins.Bottom, 0)
}

// SetTransitionDuration sets how long geometry changes animate.
func (b *Base[D, F]) SetTransitionDuration(d time.Duration) {
	b.transitionDuration = max(d, 0)
}

// TransitionDuration returns how long geometry changes animate.
func (b *Base[D, F]) TransitionDuration() time.Duration {
	return b.transitionDuration
}

// SetFilterHandler sets the function that pushes the active filters into
// the data source whenever they change.
func (b *Base[D, F]) SetFilterHandler(fn func([]F)) {
	b.filterHandler = fn
}

// OnFiltered registers a listener called after every filter change.
func (b *Base[D, F]) OnFiltered(fn func([]F)) {
	b.filteredListeners = append(b.filteredListeners, fn)
}

// Filter toggles f in the filter set and propagates the change.
func (b *Base[D, F]) Filter(f F) {
	added := b.filters.Toggle(f)
	b.logger.Debug("filter toggled", slog.Any("filter", f), slog.Bool("active", added))
	b.applyFilters()
}

// ApplyCommands runs a batch of filter mutations and propagates the result
// once.
func (b *Base[D, F]) ApplyCommands(cmds []filters.Command[F]) {
	if len(cmds) == 0 {
		return
	}
	filters.Apply(b.filters, cmds)
	b.logger.Debug("filter commands applied", slog.Int("commands", len(cmds)), slog.Int("active", b.filters.Len()))
	b.applyFilters()
}

// ResetFilters clears the filter set and propagates the change.
func (b *Base[D, F]) ResetFilters() {
	b.filters.Reset()
	b.logger.Debug("filters reset")
	b.applyFilters()
}

func (b *Base[D, F]) applyFilters() {
	active := b.filters.All()
	if b.filterHandler != nil {
		b.filterHandler(active)
	}
	for _, fn := range b.filteredListeners {
		fn(active)
	}
}

// HasFilter reports whether f is active.
func (b *Base[D, F]) HasFilter(f F) bool {
	return b.filters.Has(f)
}

// HasAnyFilter reports whether any filter is active.
func (b *Base[D, F]) HasAnyFilter() bool {
	return !b.filters.Empty()
}

// Filters returns the active filters in the order they were added.
func (b *Base[D, F]) Filters() []F {
	return b.filters.All()
}

// Trigger runs fn as one gesture; redraws it requests are coalesced.
func (b *Base[D, F]) Trigger(fn func()) error {
	return b.registry.Trigger(fn)
}

// RedrawGroup redraws every chart in the chart's group.
func (b *Base[D, F]) RedrawGroup() error {
	return b.registry.RedrawAll(b.chartGroup)
}

// RenderGroup renders every chart in the chart's group.
func (b *Base[D, F]) RenderGroup() error {
	return b.registry.RenderAll(b.chartGroup)
}
