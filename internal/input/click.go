// Package input classifies pointer clicks on the map.
package input

import (
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/campaignmap/internal/log"
)

// DefaultDoubleClick is the window within which a second click counts as a
// double click.
const DefaultDoubleClick = 250 * time.Millisecond

// ClickEvent is a primary-button click at surface pixel (X, Y).
type ClickEvent struct {
	X, Y     int
	Modified bool // Alt held
}

// ClickHandler turns raw clicks into single, double and modified clicks.
//
// A modified click runs OnToggle at once. A plain click is held for the
// double-click window: a second plain click inside the window cancels it and
// runs OnDoubleClick, otherwise Update runs OnClick once the window has
// passed. A double click ends the sequence, so a third click inside the
// window is held as a new single click instead of pairing with the second.
// All callbacks run on the goroutine calling Click and Update.
type ClickHandler struct {
	OnClick       func(ClickEvent)
	OnDoubleClick func(ClickEvent)
	OnToggle      func(ClickEvent)

	window time.Duration
	now    func() time.Time
	logger logrus.FieldLogger

	lastClick time.Time
	pending   *ClickEvent
}

// Option configures a ClickHandler.
type Option func(*ClickHandler)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(h *ClickHandler) { h.now = now }
}

// WithLogger sets the handler's logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *ClickHandler) { h.logger = logger }
}

// NewClickHandler creates a handler with the given double-click window.
// A non-positive window uses DefaultDoubleClick.
func NewClickHandler(window time.Duration, opts ...Option) *ClickHandler {
	if window <= 0 {
		window = DefaultDoubleClick
	}
	h := &ClickHandler{
		window: window,
		now:    time.Now,
		logger: log.WithField("component", "input"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Window returns the double-click window.
func (h *ClickHandler) Window() time.Duration { return h.window }

// Click records a click.
func (h *ClickHandler) Click(ev ClickEvent) {
	if ev.Modified {
		h.logger.Debugf("Toggle click at %d, %d", ev.X, ev.Y)
		call(h.OnToggle, ev)
		return
	}

	// A single click whose window has passed fires before this one is classified.
	h.Update()

	now := h.now()
	if !h.lastClick.IsZero() && now.Sub(h.lastClick) < h.window {
		h.logger.Debugf("Double click at %d, %d", ev.X, ev.Y)
		h.pending = nil
		// A third click starts a new sequence rather than pairing again.
		h.lastClick = time.Time{}
		call(h.OnDoubleClick, ev)
		return
	}

	h.lastClick = now
	h.pending = &ev
}

// Update runs the pending single click once its window has passed. Call it
// once per tick.
func (h *ClickHandler) Update() {
	if h.pending == nil || h.now().Sub(h.lastClick) < h.window {
		return
	}
	ev := *h.pending
	h.pending = nil
	call(h.OnClick, ev)
}

// Pending reports whether a single click is waiting on the window.
func (h *ClickHandler) Pending() bool { return h.pending != nil }

// Cancel drops the pending single click, if any.
func (h *ClickHandler) Cancel() {
	h.pending = nil
}

func call(fn func(ClickEvent), ev ClickEvent) {
	if fn != nil {
		fn(ev)
	}
}
