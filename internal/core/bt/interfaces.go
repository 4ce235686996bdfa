package bt

// Status represents the execution result of a behavior node tick.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusRunning:
		return "Running"
	default:
		return "Invalid"
	}
}

// MarshalText encodes the status by name so frames read "Running", not 2.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Node is the fundamental interface for behavior tree nodes.
// Tick takes no arguments: everything a node reads or mutates is captured
// when the node is constructed. A tick is synchronous and runs to completion.
type Node interface {
	// Tick executes one step of the node and returns a Status.
	Tick() Status
	// Name returns a human-readable name for debugging and history.
	Name() string
}

// Composite node owns an ordered list of children.
type Composite interface {
	Node
	AddChild(child Node)
	Children() []Node
}
