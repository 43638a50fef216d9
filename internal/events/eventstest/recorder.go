// Package eventstest records published events in memory.
package eventstest

import (
	"context"
	"sync"
)

type Event struct {
	Topic string
	Key   string
	Body  any
}

type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Topic: topic, Key: key, Body: event})
	return r.Err
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
