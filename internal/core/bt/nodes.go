package bt

type baseNode struct{ name string }

func (b baseNode) Name() string { return b.name }

// Sequence ticks children in order and stops at the first child that does not
// succeed, returning that child's status. It succeeds only when every child
// succeeds. The scan restarts from the first child on every tick.
type Sequence struct {
	baseNode
	children []Node
}

func NewSequence(name string, children ...Node) *Sequence {
	return &Sequence{baseNode: baseNode{name: name}, children: children}
}

func (s *Sequence) AddChild(child Node) { s.children = append(s.children, child) }

func (s *Sequence) Children() []Node { return s.children }

func (s *Sequence) Tick() Status {
	// vacuous truth
	if len(s.children) == 0 {
		return StatusSuccess
	}
	for _, ch := range s.children {
		if st := ch.Tick(); st != StatusSuccess {
			return st
		}
	}
	return StatusSuccess
}

// Selector ticks children in order and stops at the first child that does not
// fail, returning that child's status. It fails only when every child fails.
// This is the priority node: earlier children win.
type Selector struct {
	baseNode
	children []Node
}

func NewSelector(name string, children ...Node) *Selector {
	return &Selector{baseNode: baseNode{name: name}, children: children}
}

func (s *Selector) AddChild(child Node) { s.children = append(s.children, child) }

func (s *Selector) Children() []Node { return s.children }

func (s *Selector) Tick() Status {
	if len(s.children) == 0 {
		return StatusFailure
	}
	for _, ch := range s.children {
		if st := ch.Tick(); st != StatusFailure {
			return st
		}
	}
	return StatusFailure
}

// ConditionFunc wraps a predicate as a leaf: true maps to Success, false to Failure.
type ConditionFunc struct {
	baseNode
	Fn func() bool
}

func NewCondition(name string, fn func() bool) ConditionFunc {
	return ConditionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (c ConditionFunc) Tick() Status {
	if c.Fn == nil {
		return StatusFailure
	}
	if c.Fn() {
		return StatusSuccess
	}
	return StatusFailure
}

// ActionFunc wraps a function as an action leaf.
type ActionFunc struct {
	baseNode
	Fn func() Status
}

func NewAction(name string, fn func() Status) ActionFunc {
	return ActionFunc{baseNode: baseNode{name: name}, Fn: fn}
}

func (a ActionFunc) Tick() Status {
	if a.Fn == nil {
		return StatusFailure
	}
	return a.Fn()
}
