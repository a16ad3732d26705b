package progress

import (
	"time"
)

// Reporter is the interface for outputting progress events.
//
// Reporters receive events from the Progress hub and format them in various
// ways: timestamped text, NDJSON, an in-terminal fill bar, or a Go channel
// for programmatic consumers. Implementations must be safe for concurrent
// use, and Report should not block; each reporter runs behind a buffered
// worker so a slow reporter cannot stall the workload.
type Reporter interface {
	// Report outputs a progress event. Events arrive pre-normalized with
	// timestamps and calculated percentages when delivered by the hub.
	Report(event Event)
}

// Collector is the interface for gathering progress events from a workload.
//
// Collectors accept events via Report and expose them on a channel that the
// Progress hub subscribes to. This decouples the code doing the work from
// the code rendering its progress. Implementations must be safe for
// concurrent use and typically buffer and/or throttle to keep high-frequency
// loops from overwhelming the pipeline.
type Collector interface {
	// Reporter embeds the ability to receive events; concrete collectors
	// forward them to their internal channel.
	Reporter

	// ID returns a unique identifier for this collector, used by the hub
	// to manage subscriptions.
	ID() int

	// CollectChannel returns the channel the hub reads events from.
	CollectChannel() chan Event
}

// Event represents a progress update at a specific point in time.
//
// Not all fields are populated for every event: an epoch boundary may carry
// only Stage and Message, while step events carry Current, Total and
// Percent.
type Event struct {
	// Timestamp is when the event occurred. If not set by the caller,
	// reporters populate it automatically.
	Timestamp time.Time `json:"timestamp"`

	// Stage indicates which phase of the run this event relates to.
	Stage Stage `json:"stage"`

	// Message provides human-readable context (e.g. dataset name, metric).
	Message string `json:"message,omitempty"`

	// Current is the number of units completed so far in this stage.
	Current int `json:"current,omitempty"`

	// Total is the total number of units for this stage.
	Total int `json:"total,omitempty"`

	// Percent is the completion percentage (0-100), calculated from
	// Current and Total if not set.
	Percent float64 `json:"percent,omitempty"`

	// Metadata carries additional stage-specific information, such as loss
	// values or error details.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Stage represents a phase of a stepped run.
//
// A typical training run moves through the stages in order:
//  1. StageInit - run starting
//  2. StageDataLoad - loading datasets
//  3. StageEpoch - epoch boundary
//  4. StageStep - per-step progress within an epoch
//  5. StageEval - evaluation pass
//  6. StageComplete - run finished
type Stage string

const (
	// StageInit indicates run initialization.
	StageInit Stage = "init"

	// StageDataLoad indicates dataset loading. Events include the number
	// of samples or shards loaded.
	StageDataLoad Stage = "data_load"

	// StageEpoch indicates an epoch boundary. Events carry the epoch
	// number in Current and the epoch count in Total.
	StageEpoch Stage = "epoch"

	// StageStep indicates per-step progress. Events carry current/total
	// counts and percentage completion.
	StageStep Stage = "step"

	// StageEval indicates an evaluation pass.
	StageEval Stage = "eval"

	// StageComplete indicates the run has finished.
	StageComplete Stage = "complete"
)
