package bt

// TraceEntry is one observed child result.
type TraceEntry struct {
	Node   string `json:"node"`
	Status Status `json:"status"`
}

// Trace records the results of tapped nodes during a single tick. It is an
// observation aid only: nodes never read it back to make decisions.
type Trace struct {
	entries []TraceEntry
}

// Reset clears the trace; call it before every tick.
func (t *Trace) Reset() { t.entries = t.entries[:0] }

// Entries returns the recorded entries in tick order.
func (t *Trace) Entries() []TraceEntry {
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Winner returns the first recorded entry that did not fail. Under a Selector
// whose children are all tapped this is the branch that handled the tick.
func (t *Trace) Winner() (TraceEntry, bool) {
	for _, e := range t.entries {
		if e.Status != StatusFailure {
			return e, true
		}
	}
	return TraceEntry{}, false
}

func (t *Trace) record(name string, st Status) {
	t.entries = append(t.entries, TraceEntry{Node: name, Status: st})
}

type tapped struct {
	Node
	trace *Trace
}

// Tap wraps n so that each of its ticks is recorded into trace.
func Tap(n Node, trace *Trace) Node {
	if trace == nil {
		return n
	}
	return tapped{Node: n, trace: trace}
}

func (t tapped) Tick() Status {
	st := t.Node.Tick()
	t.trace.record(t.Node.Name(), st)
	return st
}
