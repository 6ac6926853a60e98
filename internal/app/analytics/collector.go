package analytics

import "sync"

// Collector is a Sink that records delivered events.
// Used by tests and the demo CLI.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Deliver records the event.
func (c *Collector) Deliver(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Names returns the recorded event names in delivery order.
func (c *Collector) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, len(c.events))
	for i, e := range c.events {
		names[i] = e.Name
	}
	return names
}
