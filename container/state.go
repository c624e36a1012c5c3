package container

import "fmt"

// State is the part of the container a Transcoder expects next.
type State int

// Transcoder states. The first four follow the container layout; Done and
// Failed are terminal.
const (
	AwaitingMagic State = iota
	AwaitingMetadata
	AwaitingSync
	AwaitingDataBlock
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingMagic:
		return "awaiting magic"
	case AwaitingMetadata:
		return "awaiting metadata"
	case AwaitingSync:
		return "awaiting sync"
	case AwaitingDataBlock:
		return "awaiting data block"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is the result of a single parse step.
type Outcome int

// Step outcomes.
const (
	// NeedMoreInput means the step could not complete with the buffered
	// input. Nothing was consumed; the step should be retried once more
	// input has been added.
	NeedMoreInput Outcome = iota

	// Progressed means the step completed and produced output.
	Progressed
)

func (o Outcome) String() string {
	switch o {
	case NeedMoreInput:
		return "need more input"
	case Progressed:
		return "progressed"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}
