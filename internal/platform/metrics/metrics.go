// Package metrics provides observability for the crisis server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and gameplay metrics.
type Collector struct {
	// Action metrics
	ActionsPerformed int64
	ActionsRejected  int64

	// Gameplay metrics
	EvidenceFound     int64
	RandomEventsFired int64
	SessionsResolved  int64

	// Event persistence metrics
	EventsWritten    int64
	EventWriteLatSum int64 // nanoseconds
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordAction records a gameplay action attempt.
func (c *Collector) RecordAction(err error) {
	if err != nil {
		atomic.AddInt64(&c.ActionsRejected, 1)
		return
	}
	atomic.AddInt64(&c.ActionsPerformed, 1)
}

// RecordEvidenceFound records one evidence draw.
func (c *Collector) RecordEvidenceFound() {
	atomic.AddInt64(&c.EvidenceFound, 1)
}

// RecordRandomEvent records one fired random event.
func (c *Collector) RecordRandomEvent() {
	atomic.AddInt64(&c.RandomEventsFired, 1)
}

// RecordSessionResolved records one session reaching resolution.
func (c *Collector) RecordSessionResolved() {
	atomic.AddInt64(&c.SessionsResolved, 1)
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	var eventAvg float64
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"actions": map[string]interface{}{
			"performed": atomic.LoadInt64(&c.ActionsPerformed),
			"rejected":  atomic.LoadInt64(&c.ActionsRejected),
		},

		"gameplay": map[string]interface{}{
			"evidence_found":      atomic.LoadInt64(&c.EvidenceFound),
			"random_events_fired": atomic.LoadInt64(&c.RandomEventsFired),
			"sessions_resolved":   atomic.LoadInt64(&c.SessionsResolved),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP kingdom_actions_performed Total accepted gameplay actions\n")
		fmt.Fprintf(w, "# TYPE kingdom_actions_performed counter\n")
		fmt.Fprintf(w, "kingdom_actions_performed %d\n\n", atomic.LoadInt64(&c.ActionsPerformed))

		fmt.Fprintf(w, "# HELP kingdom_actions_rejected Total rejected gameplay actions\n")
		fmt.Fprintf(w, "# TYPE kingdom_actions_rejected counter\n")
		fmt.Fprintf(w, "kingdom_actions_rejected %d\n\n", atomic.LoadInt64(&c.ActionsRejected))

		fmt.Fprintf(w, "# HELP kingdom_evidence_found Total evidence items discovered\n")
		fmt.Fprintf(w, "# TYPE kingdom_evidence_found counter\n")
		fmt.Fprintf(w, "kingdom_evidence_found %d\n\n", atomic.LoadInt64(&c.EvidenceFound))

		fmt.Fprintf(w, "# HELP kingdom_random_events_fired Total random events fired\n")
		fmt.Fprintf(w, "# TYPE kingdom_random_events_fired counter\n")
		fmt.Fprintf(w, "kingdom_random_events_fired %d\n\n", atomic.LoadInt64(&c.RandomEventsFired))

		fmt.Fprintf(w, "# HELP kingdom_sessions_resolved Total sessions resolved\n")
		fmt.Fprintf(w, "# TYPE kingdom_sessions_resolved counter\n")
		fmt.Fprintf(w, "kingdom_sessions_resolved %d\n\n", atomic.LoadInt64(&c.SessionsResolved))

		fmt.Fprintf(w, "# HELP kingdom_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE kingdom_events_written counter\n")
		fmt.Fprintf(w, "kingdom_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP kingdom_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE kingdom_event_write_errors counter\n")
		fmt.Fprintf(w, "kingdom_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP kingdom_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE kingdom_ws_connections gauge\n")
		fmt.Fprintf(w, "kingdom_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP kingdom_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE kingdom_ws_messages_total counter\n")
		fmt.Fprintf(w, "kingdom_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "kingdom_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
