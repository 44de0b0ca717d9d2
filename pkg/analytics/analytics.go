// Package analytics defines the event sink the widgets report user actions
// to.
package analytics

import (
	"maps"
	"sort"
	"sync"

	"go.uber.org/zap"
)

const (
	DatasourceCardEdit        = "DATASOURCE_CARD_EDIT_ACTION"
	DatasourceCardGenCRUDPage = "DATASOURCE_CARD_GEN_CRUD_PAGE_ACTION"
	DatasourceCardDelete      = "DATASOURCE_CARD_DELETE_ACTION"
	DatasourceCardNewAction   = "DATASOURCE_CARD_NEW_ACTION"
)

// Properties are the attributes of an event.
type Properties map[string]any

// Logger records named events.
type Logger interface {
	LogEvent(name string, props Properties)
}

// Nop discards events.
type Nop struct{}

// LogEvent does nothing.
func (Nop) LogEvent(string, Properties) {}

// Zap writes events as structured info logs.
type Zap struct {
	logger *zap.Logger
}

// NewZap wraps logger. A nil logger discards events.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger.Named("analytics")}
}

// LogEvent logs name with props as fields in key order.
func (z *Zap) LogEvent(name string, props Properties) {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys)+1)
	fields = append(fields, zap.String("event", name))
	for _, key := range keys {
		fields = append(fields, zap.Any(key, props[key]))
	}
	z.logger.Info("analytics event", fields...)
}

// Event is a recorded event.
type Event struct {
	Name  string
	Props Properties
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// LogEvent records the event.
func (r *Recorder) LogEvent(name string, props Properties) {
	r.mu.Lock()
	r.events = append(r.events, Event{Name: name, Props: maps.Clone(props)})
	r.mu.Unlock()
}

// Events returns the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the recorded event names.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, event := range r.events {
		names = append(names, event.Name)
	}
	return names
}

// Multi fans events out to several loggers.
func Multi(loggers ...Logger) Logger {
	return multi(loggers)
}

type multi []Logger

func (m multi) LogEvent(name string, props Properties) {
	for _, logger := range m {
		if logger != nil {
			logger.LogEvent(name, props)
		}
	}
}
