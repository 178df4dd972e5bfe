package orchestration

// State is one phase of the plan/refactor pipeline. The run advances
// strictly forward; Aborted is reachable from any non-terminal state on
// cancellation or unrecoverable error.
type State int

const (
	StateIdle State = iota
	StateSampling
	StatePlanning
	StateAwaitingMode
	StateRefactoring
	StatePresenting
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSampling:
		return "Sampling"
	case StatePlanning:
		return "Planning"
	case StateAwaitingMode:
		return "AwaitingMode"
	case StateRefactoring:
		return "Refactoring"
	case StatePresenting:
		return "Presenting"
	case StateDone:
		return "Done"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// RunSummary is handed back to the command layer for the final status line.
type RunSummary struct {
	State         State
	RequestID     string
	Sampled       int // candidate files with skeletons
	Targeted      int // files the planner selected
	Submitted     int // targets still on disk at refactor time
	Refactored    int // results with new content
	PerFileErrors int // per-file refactor errors (including missing results)
	Rendered      int // successful diff renders
	RenderErrors  int
	Branch        string // set only on apply when the backend committed
}
