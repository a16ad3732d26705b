package progress

import (
	"context"
	"sync"
)

// Progress coordinates the flow of events between collectors and reporters.
//
// Collectors gather events from the workload and expose them on channels;
// Progress multiplexes those channels into a central stream and fans the
// stream out to every registered reporter. Each reporter runs behind its own
// buffered worker goroutine so a slow reporter cannot stall collection or
// starve the other reporters.
//
// Lifecycle:
//  1. Create with New and options (WithContext, WithReporters, WithCollectors).
//  2. Progress subscribes to the collectors and starts the reporter workers.
//  3. Events flow collector -> hub -> reporter channels -> reporters.
//  4. Cancelling the context stops all goroutines.
//
// Progress is safe for concurrent use: multiple collectors can send events
// simultaneously and every reporter receives all of them.
type Progress struct {
	ctx              context.Context
	reporters        []Reporter
	reporterChannels []chan Event
	collectors       []Collector
	events           chan Event
	cancelByID       map[int]context.CancelFunc
	subscribeMu      sync.Mutex
}

// Option configures a Progress instance during creation.
type Option func(p *Progress)

// WithContext sets the context controlling the lifecycle of all background
// goroutines. When it is cancelled, reporters and collector subscriptions
// stop processing events.
func WithContext(ctx context.Context) Option {
	return func(p *Progress) {
		p.ctx = ctx
	}
}

// WithReporters adds one or more reporters. Every reporter receives every
// event.
func WithReporters(reporters ...Reporter) Option {
	return func(p *Progress) {
		p.reporters = append(p.reporters, reporters...)
	}
}

// WithCollectors adds one or more collectors. Progress subscribes to each
// collector's channel during initialization.
func WithCollectors(collectors ...Collector) Option {
	return func(p *Progress) {
		p.collectors = append(p.collectors, collectors...)
	}
}

// New creates a Progress hub with the provided options.
//
// If no reporters are specified a NoopReporter is installed, so a hub with
// reporting disabled costs nothing. If no context is provided the hub runs
// until the process exits.
func New(opts ...Option) (*Progress, error) {
	pg := &Progress{
		events:     make(chan Event, 100),
		cancelByID: map[int]context.CancelFunc{},
	}
	for _, opt := range opts {
		opt(pg)
	}
	if pg.ctx == nil {
		pg.ctx = context.Background()
	}

	if len(pg.reporters) == 0 {
		pg.reporters = append(pg.reporters, &NoopReporter{})
	}

	for _, rep := range pg.reporters {
		ch := make(chan Event, 100)
		pg.reporterChannels = append(pg.reporterChannels, ch)
		go pg.reporterWorker(rep, ch)
	}

	go func() {
		for {
			select {
			case event := <-pg.events:
				for _, ch := range pg.reporterChannels {
					ch <- event
				}
			case <-pg.ctx.Done():
				return
			}
		}
	}()

	for _, col := range pg.collectors {
		pg.Subscribe(col)
	}

	return pg, nil
}

// Subscribe starts receiving events from the collector. A goroutine forwards
// the collector's channel into the hub until either the hub context is
// cancelled or Unsubscribe is called.
func (p *Progress) Subscribe(collector Collector) {
	subCtx, cancel := context.WithCancel(p.ctx)
	p.subscribeMu.Lock()
	p.cancelByID[collector.ID()] = cancel
	p.subscribeMu.Unlock()

	go func() {
		for {
			select {
			case event := <-collector.CollectChannel():
				p.events <- event
			case <-subCtx.Done():
				return
			}
		}
	}()
}

// Unsubscribe stops receiving events from the collector. Events already in
// flight may still be delivered.
func (p *Progress) Unsubscribe(collector Collector) {
	p.subscribeMu.Lock()
	cancel := p.cancelByID[collector.ID()]
	p.subscribeMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// reporterWorker forwards events to a single reporter until the hub context
// is cancelled.
func (p *Progress) reporterWorker(rep Reporter, events chan Event) {
	for {
		select {
		case event := <-events:
			rep.Report(event)
		case <-p.ctx.Done():
			return
		}
	}
}
