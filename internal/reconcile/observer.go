package reconcile

import "go.uber.org/zap"

// EventKind names a step of a reconciliation run
type EventKind string

const (
	EventRunStarted        EventKind = "run_started"
	EventFieldMissing      EventKind = "field_missing"
	EventCollectionIndexed EventKind = "collection_indexed"
	EventCollectionSkipped EventKind = "collection_skipped"
	EventItemMatched       EventKind = "item_matched"
	EventItemPending       EventKind = "item_pending"
	EventOverflowAppended  EventKind = "overflow_appended"
	EventOverflowMissing   EventKind = "overflow_missing"
	EventRunFinished       EventKind = "run_finished"
)

// Event is a progress notification. Fields that do not apply to the kind are
// left zero.
type Event struct {
	RunID      string
	Kind       EventKind
	Collection string
	Serial     string
	Row        int
	Count      int
	Detail     string
}

// Observer receives progress events synchronously, in run order
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

// Observe calls f(e)
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

// LogObserver forwards events to a zap logger. Per-item events are logged at
// debug level.
func LogObserver(logger *zap.Logger) Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ObserverFunc(func(e Event) {
		fields := []zap.Field{zap.String("run_id", e.RunID)}
		if e.Collection != "" {
			fields = append(fields, zap.String("collection", e.Collection))
		}
		if e.Serial != "" {
			fields = append(fields, zap.String("serial", e.Serial))
		}
		if e.Row > 0 {
			fields = append(fields, zap.Int("row", e.Row))
		}
		if e.Count > 0 {
			fields = append(fields, zap.Int("count", e.Count))
		}
		if e.Detail != "" {
			fields = append(fields, zap.String("detail", e.Detail))
		}

		switch e.Kind {
		case EventItemMatched, EventItemPending:
			logger.Debug(string(e.Kind), fields...)
		case EventFieldMissing, EventCollectionSkipped, EventOverflowMissing:
			logger.Warn(string(e.Kind), fields...)
		default:
			logger.Info(string(e.Kind), fields...)
		}
	})
}

// multiObserver fans an event out to several observers
type multiObserver []Observer

func (m multiObserver) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}
