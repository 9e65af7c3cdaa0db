// Package event holds the events the pathing coordinator reports to its handler.
package event

import "time"

const (
	IDPathCalculated byte = iota
	IDPathCompleted
	IDPath
)

// Event is something that happened during pathing. Events are delivered on the tick goroutine.
type Event interface {
	ID() byte
	// Tick returns the tick of the coordinator the event happened on.
	Tick() int64
}

type NopEvent struct {
	EvTick int64
}

func (n NopEvent) Tick() int64 {
	return n.EvTick
}

// PathCalculated is sent when a calculation finished with a path.
type PathCalculated struct {
	NopEvent

	// Length is the amount of positions in the path.
	Length int
	// ReachesGoal is false for a partial path.
	ReachesGoal bool
	// Segment is true if the path was calculated ahead of time to continue the current one.
	Segment bool

	Expanded   int
	Considered int
	ChunkSkips int
	Duration   time.Duration
}

func (PathCalculated) ID() byte {
	return IDPathCalculated
}

// PathCompleted is sent when pathing towards a goal stops, either because the goal was reached or
// because it was given up on.
type PathCompleted struct {
	NopEvent

	Success bool
	Reason  string
}

func (PathCompleted) ID() byte {
	return IDPathCompleted
}

// PathEvent reports a step in the life of a path.
type PathEvent struct {
	NopEvent

	Kind Kind
}

func (PathEvent) ID() byte {
	return IDPath
}

// Kind is the kind of a PathEvent.
type Kind uint8

const (
	CalcStarted Kind = iota
	CalcFinishedNowExecuting
	CalcFailed
	NextSegmentCalcStarted
	NextSegmentCalcFinished
	ContinuingOntoPlannedNext
	SplicingOntoNextEarly
	AtGoal
	Canceled
	Discarded
)

func (k Kind) String() string {
	switch k {
	case CalcStarted:
		return "calc started"
	case CalcFinishedNowExecuting:
		return "calc finished, now executing"
	case CalcFailed:
		return "calc failed"
	case NextSegmentCalcStarted:
		return "next segment calc started"
	case NextSegmentCalcFinished:
		return "next segment calc finished"
	case ContinuingOntoPlannedNext:
		return "continuing onto planned next"
	case SplicingOntoNextEarly:
		return "splicing onto next early"
	case AtGoal:
		return "at goal"
	case Canceled:
		return "canceled"
	case Discarded:
		return "discarded"
	}
	return "unknown"
}

// Handler handles events sent by the coordinator. HandleEvent must not block.
type Handler interface {
	HandleEvent(ev Event)
}

// HandlerFunc is a function implementing Handler.
type HandlerFunc func(ev Event)

func (f HandlerFunc) HandleEvent(ev Event) {
	f(ev)
}

// NopHandler ignores every event.
type NopHandler struct{}

func (NopHandler) HandleEvent(Event) {}
