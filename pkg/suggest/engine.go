// Package suggest implements the autocomplete engine behind the free-text
// cells of a takeoff sheet. One Engine serves one on-screen field: it
// debounces keystrokes, fetches candidates from a Source, reconciles them
// with values typed elsewhere in the session but not yet saved, and keeps
// the visible list consistent with the most recently issued query even
// when responses arrive out of order.
package suggest

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// DefaultDebounce is how long the engine waits after the last
	// keystroke before querying.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultLimit is how many candidates are requested per query.
	DefaultLimit = 10
)

// State is what the owning field renders: the current suggestion list,
// whether a fetch is underway, and the last fetch failure if any.
type State struct {
	Suggestions []string
	Loading     bool
	Err         error
}

// Options configures one Engine.
type Options struct {
	// Endpoint identifies the suggestion resource for this field.
	Endpoint string
	// Initial is the value already on screen when the field appears.
	// It is never queried; screens full of pre-filled fields must not
	// fire a request storm on load.
	Initial string
	// Unsaved seeds the session-local candidate values.
	Unsaved []string
	// Params are extra filters sent with every query, e.g. a parent
	// category. Empty values are dropped at fetch time.
	Params map[string]string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Limit defaults to DefaultLimit.
	Limit int
	// Disabled starts the engine suspended; it then holds an empty
	// suggestion list until enabled.
	Disabled bool
	// OnChange is invoked after every state transition, from the
	// goroutine that caused it and while the engine lock is held. It
	// must not call back into the Engine.
	OnChange func(State)
}

// Engine drives suggestions for a single field instance. Create one per
// mounted field and Close it when the field goes away.
type Engine struct {
	src      Source
	endpoint string
	debounce time.Duration
	limit    int
	params   map[string]string
	onChange func(State)

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	col        *collate.Collator
	input      string
	unsaved    []string
	disabled   bool
	closed     bool
	timer      *time.Timer
	lastIssued uint64
	cached     []string
	cachedFor  string
	hasCache   bool
	state      State
}

// NewEngine builds an engine around src. The source sees one Fetch per
// settled (debounced) input change.
func NewEngine(src Source, opts Options) *Engine {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		src:      src,
		endpoint: opts.Endpoint,
		debounce: debounce,
		limit:    limit,
		params:   opts.Params,
		onChange: opts.OnChange,
		ctx:      ctx,
		cancel:   cancel,
		col:      collate.New(language.Japanese),
		input:    opts.Initial,
		unsaved:  append([]string(nil), opts.Unsaved...),
		disabled: opts.Disabled,
	}
}

// SetInput records a changed field value. An unchanged value is a no-op.
// An empty value clears the suggestions immediately without a query;
// anything else restarts the debounce window.
func (e *Engine) SetInput(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || text == e.input {
		return
	}
	e.input = text
	if e.disabled {
		return
	}
	e.stopTimerLocked()
	if text == "" {
		e.lastIssued++
		e.state = State{}
		e.notifyLocked()
		return
	}
	e.timer = time.AfterFunc(e.debounce, func() { e.fire(text) })
}

// SetUnsaved replaces the session-local candidates. When the current
// input already has a fetched result, the visible list is rebuilt from
// the cached server values alone; no new query is issued.
func (e *Engine) SetUnsaved(values []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.unsaved = append([]string(nil), values...)
	if e.disabled || e.input == "" {
		return
	}
	if e.hasCache && e.cachedFor == e.input {
		e.state.Suggestions = merge(e.cached, e.unsaved, e.input, e.col)
		e.notifyLocked()
	}
}

// SetEnabled suspends or resumes the engine. Disabling cancels any
// pending query and empties the list; enabling stays idle until the next
// input change.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.disabled == !enabled {
		return
	}
	e.disabled = !enabled
	if !enabled {
		e.stopTimerLocked()
		e.lastIssued++
		e.state = State{}
		e.notifyLocked()
	}
}

// State returns a snapshot of the current suggestion state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Close releases the engine: the debounce timer stops, in-flight fetches
// are cancelled and their results dropped. Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.stopTimerLocked()
	e.lastIssued++
	e.mu.Unlock()
	e.cancel()
}

// fire runs when the debounce window for text elapses.
func (e *Engine) fire(text string) {
	e.mu.Lock()
	if e.closed || e.disabled || e.input != text {
		e.mu.Unlock()
		return
	}
	e.lastIssued++
	id := e.lastIssued
	q := Query{Endpoint: e.endpoint, Text: text, Limit: e.limit, Params: e.params}
	e.state.Loading = true
	e.state.Err = nil
	e.notifyLocked()
	e.mu.Unlock()

	values, err := e.src.Fetch(e.ctx, q)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || id != e.lastIssued {
		// A newer query owns the state now.
		return
	}
	if err != nil {
		log.Debugf("suggestion fetch for %q failed: %v", text, err)
		e.state = State{Err: err}
		e.notifyLocked()
		return
	}
	e.cached = append([]string(nil), values...)
	e.cachedFor = text
	e.hasCache = true
	e.state = State{Suggestions: merge(e.cached, e.unsaved, text, e.col)}
	e.notifyLocked()
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) snapshotLocked() State {
	return State{
		Suggestions: append([]string(nil), e.state.Suggestions...),
		Loading:     e.state.Loading,
		Err:         e.state.Err,
	}
}

func (e *Engine) notifyLocked() {
	if e.onChange != nil {
		e.onChange(e.snapshotLocked())
	}
}
