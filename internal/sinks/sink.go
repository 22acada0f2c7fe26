package sinks

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"loottracker/internal/models"
	"loottracker/internal/monitoring"
	"loottracker/internal/queue"
)

// Sink is an independent downstream consumer of accepted loot events.
// Enqueue never blocks and never fails the gate; each sink drains its own
// queue on its own flush interval. Sinks must not mutate the events they
// receive.
type Sink interface {
	Name() string
	Enqueue(event *models.LootEvent)
	Frequency() time.Duration
	Flush(ctx context.Context) error
}

// queueSink carries the queue plumbing shared by every sink.
type queueSink struct {
	name      string
	queue     *queue.Queue
	frequency time.Duration
}

func newQueueSink(name string, frequency time.Duration) queueSink {
	return queueSink{
		name:      name,
		queue:     queue.New(),
		frequency: frequency,
	}
}

// Name returns the sink identifier.
func (s *queueSink) Name() string {
	return s.name
}

// Frequency returns the flush interval.
func (s *queueSink) Frequency() time.Duration {
	return s.frequency
}

// Enqueue adds an event to the sink queue. Never blocks.
func (s *queueSink) Enqueue(event *models.LootEvent) {
	s.queue.Enqueue(event)
	monitoring.SinkQueueDepth.WithLabelValues(s.name).Set(float64(s.queue.Len()))
}

// drain empties the sink queue in FIFO order.
func (s *queueSink) drain() []*models.LootEvent {
	events := s.queue.Drain()
	monitoring.SinkQueueDepth.WithLabelValues(s.name).Set(0)
	return events
}

// Manager runs one flush loop per registered sink.
type Manager struct {
	sinks []Sink
	wg    sync.WaitGroup
}

// NewManager creates an empty sink manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a sink to the manager.
func (m *Manager) Register(sink Sink) {
	m.sinks = append(m.sinks, sink)
}

// Sinks returns the registered sinks.
func (m *Manager) Sinks() []Sink {
	return m.sinks
}

// Start launches one goroutine per sink, flushing on the sink's interval
// until the context is cancelled. Events still queued at shutdown are
// abandoned; that data loss is accepted on teardown.
func (m *Manager) Start(ctx context.Context) {
	for _, sink := range m.sinks {
		m.wg.Add(1)
		go func(sink Sink) {
			defer m.wg.Done()

			ticker := time.NewTicker(sink.Frequency())
			defer ticker.Stop()

			logrus.WithFields(logrus.Fields{
				"sink":      sink.Name(),
				"frequency": sink.Frequency(),
			}).Info("Sink started")

			for {
				select {
				case <-ctx.Done():
					logrus.WithField("sink", sink.Name()).Info("Sink stopped")
					return
				case <-ticker.C:
					if err := sink.Flush(ctx); err != nil {
						logrus.WithError(err).WithField("sink", sink.Name()).Error("Sink flush failed")
						monitoring.SinkFlushesTotal.WithLabelValues(sink.Name(), "error").Inc()
					} else {
						monitoring.SinkFlushesTotal.WithLabelValues(sink.Name(), "ok").Inc()
					}
				}
			}
		}(sink)
	}
}

// Wait blocks until every sink loop has stopped.
func (m *Manager) Wait() {
	m.wg.Wait()
}
