// Package lifecycle exposes note store change events as a lifecycle.Source,
// so supervisors and CLI tools can consume them like any other event stream.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

type changeSource struct {
	events <-chan core.Event
	types  map[core.EventType]bool
	out    chan lifecycle.Event
}

// SourceOption configures a change source.
type SourceOption func(*changeSource)

// WithEventTypes forwards only events of the given types.
func WithEventTypes(types ...core.EventType) SourceOption {
	return func(s *changeSource) {
		if len(types) == 0 {
			return
		}
		s.types = make(map[core.EventType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
}

// NewSource creates a lifecycle.Source that emits the collection change
// events produced by core.Service.Watch.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &changeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx ends or the input closes, then closes
// the output channel.
func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.types != nil && !s.types[e.Type] {
					continue
				}
				// core.Event satisfies lifecycle.Event through String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
