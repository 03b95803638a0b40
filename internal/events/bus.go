// Package events implements a small pub/sub bus that decouples "what
// happened during this round" from "who cares": the CLI orchestration
// layer publishes RowDropped/NonConverged/RoundComputed/RoundFailed
// notifications, and subscribers such as the console logger receive them
// independently. The statistical core never touches this bus — only
// internal/cli's calculate command publishes to it.
package events

import (
	"context"
	"fmt"
	"sync"
)

// EventType identifies what happened during a round, so a subscriber
// can filter without unmarshaling Data.
type EventType string

const (
	RowDropped    EventType = "row_dropped"
	NonConverged  EventType = "non_converged"
	RoundComputed EventType = "round_computed"
	RoundFailed   EventType = "round_failed"
)

// Event is passed on the bus to every subscriber on the channel.
type Event struct {
	EventType EventType
	Data      interface{}
}

// Topic groups subscribers that only receive events published to it.
type Topic string

const (
	defaultTopic Topic = "__default__"
	errorTopic   Topic = "__errors__"
)

// OnErrorTopic returns the topic RoundFailed events are additionally
// published to, letting an error-reporting subscriber register for
// failures only.
func OnErrorTopic() Topic {
	return errorTopic
}

// ErrShutdownTimeout is returned by Shutdown if ctx is done before every
// subscriber has finished draining and exited.
var ErrShutdownTimeout = fmt.Errorf("events: context timeout or cancelled before all subscribers exited")

// Bus dispatches events to every subscriber on one or more topics. If no
// topic is given at Subscribe time, the subscriber joins the default
// topic and receives every event published on any topic.
type Bus struct {
	subscribers map[Topic][]chan Event
	done        []chan struct{}
	mutex       sync.RWMutex
}

// New returns a new, empty event bus.
func New() *Bus {
	return &Bus{subscribers: make(map[Topic][]chan Event)}
}

// Subscribe registers a subscriber on zero or more topics, defaulting to
// the default topic. It returns the event channel (closed on shutdown)
// and a done channel the subscriber must close once it has finished
// draining the event channel and exited any goroutines.
func (b *Bus) Subscribe(topics ...Topic) (chan Event, chan struct{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	c := make(chan Event, 1)
	done := make(chan struct{})
	b.done = append(b.done, done)

	if len(topics) == 0 {
		topics = []Topic{defaultTopic}
	}

	for _, topic := range topics {
		b.subscribers[topic] = append(b.subscribers[topic], c)
	}
	return c, done
}

// Unsubscribe removes the subscriber from every topic and closes its
// channels.
func (b *Bus) Unsubscribe(c chan Event, done chan struct{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for topic, chs := range b.subscribers {
		for i, ch := range chs {
			if ch == c {
				close(ch)
				b.subscribers[topic] = append(b.subscribers[topic][:i], b.subscribers[topic][i+1:]...)
			}
		}
	}
	for i, d := range b.done {
		if d == done {
			close(d)
			b.done = append(b.done[:i], b.done[i+1:]...)
		}
	}
}

// Dispatch sends event to every subscriber of topics, plus every default
// topic subscriber regardless of which topics were named. It blocks until
// each of those subscribers' channels has accepted the event.
func (b *Bus) Dispatch(event Event, topics ...Topic) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	topics = append(topics, defaultTopic)

	seen := make(map[Topic]bool, len(topics))
	for _, topic := range topics {
		if seen[topic] {
			continue
		}
		seen[topic] = true

		// Sending while the read lock is held keeps Shutdown and
		// Unsubscribe from closing a channel in the middle of a send.
		for _, ch := range b.subscribers[topic] {
			ch <- event
		}
	}
}

// Shutdown closes every subscriber channel and blocks until each
// subscriber has closed its done channel, or ctx is done first.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	done := make(chan struct{})
	go shutdownNotify(done, append([]chan struct{}{}, b.done...))

	for _, chs := range b.subscribers {
		for _, ch := range chs {
			close(ch)
		}
	}

	select {
	case <-ctx.Done():
		return ErrShutdownTimeout
	case <-done:
		return nil
	}
}

func shutdownNotify(done chan struct{}, all []chan struct{}) {
	var wg sync.WaitGroup
	for _, ch := range all {
		wg.Add(1)
		go func(c chan struct{}) {
			defer wg.Done()
			<-c
		}(ch)
	}
	wg.Wait()
	close(done)
}
