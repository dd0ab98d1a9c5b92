package calc

import (
	"errors"
	"time"
)

// ErrorText is shown in place of the current operand while the error state is active.
const ErrorText = "Error"

// DefaultErrorDelay is how long the error state stays on screen before the state clears.
const DefaultErrorDelay = 1500 * time.Millisecond

// ErrDivisionByZero is recorded when Compute divides by a parsed zero.
var ErrDivisionByZero = errors.New("division by zero")

var errNoOperator = errors.New("no operator pending")

// Alarm schedules the one-shot recovery from the error state.
// The owner must call State.Recover when it fires.
type Alarm interface {
	Schedule(delay time.Duration)
}

// Display is what the output side renders after every input event.
type Display struct {
	Previous string
	Current  string
	Active   Operator
	Error    bool
}

// State is the calculator state machine.
//
// It is not safe for concurrent use; the calc task owns it and feeds it one event
// at a time. While the error state is active every entry method is ignored and
// only Recover leaves it.
type State struct {
	current  operand
	previous operand
	op       Operator

	awaitingReset bool
	failed        bool
	err           error

	alarm Alarm
	delay time.Duration

	// computes counts successful computations, implicit ones included.
	computes uint64
}

// NewState returns a cleared state. A nil alarm leaves recovery entirely to the caller.
func NewState(alarm Alarm, delay time.Duration) *State {
	if delay <= 0 {
		delay = DefaultErrorDelay
	}
	s := &State{alarm: alarm, delay: delay}
	s.reset()
	return s
}

func (s *State) reset() {
	s.current = operand{}
	s.previous = operand{}
	s.op = OpNone
	s.awaitingReset = false
	s.failed = false
	s.err = nil
}

// Clear returns the state to its initial values.
func (s *State) Clear() {
	if s.failed {
		return
	}
	s.reset()
}

// DeleteLast removes the last character of the current operand.
// A freshly computed result cannot be edited.
func (s *State) DeleteLast() {
	if s.failed || s.awaitingReset {
		return
	}
	s.current = s.current.withoutLast()
}

// Append adds a digit or the decimal point to the current operand.
// Other runes and a second decimal point are ignored.
func (s *State) Append(r rune) {
	if s.failed || !isEntrySymbol(r) {
		return
	}
	if s.awaitingReset {
		s.current = operand{}
		s.awaitingReset = false
	}
	if r == '.' && s.current.hasPoint() {
		return
	}
	s.current = textOperand(s.current.String() + string(r))
}

// ChooseOperator makes op the pending operator, folding any operation already
// pending into the previous operand first.
func (s *State) ChooseOperator(op Operator) {
	if s.failed || op == OpNone || s.current.empty() {
		return
	}
	if !s.previous.empty() {
		s.Compute()
		if s.failed {
			return
		}
	}
	s.op = op
	s.previous = s.current
	s.current = operand{}
	s.awaitingReset = false
}

// Compute applies the pending operator to the two operands.
//
// Nothing happens when either operand does not parse or no operator is pending.
// Dividing by zero enters the error state and schedules recovery.
func (s *State) Compute() {
	if s.failed {
		return
	}
	prev, ok := s.previous.parse()
	if !ok {
		return
	}
	cur, ok := s.current.parse()
	if !ok {
		return
	}
	if s.op == OpNone {
		return
	}

	v, err := s.op.apply(prev, cur)
	if errors.Is(err, ErrDivisionByZero) {
		s.fail(err)
		return
	}
	if err != nil {
		return
	}

	s.current = numberOperand(v)
	s.previous = operand{}
	s.op = OpNone
	s.awaitingReset = true
	s.computes++
}

func (s *State) fail(err error) {
	s.current = textOperand(ErrorText)
	s.failed = true
	s.err = err
	if s.alarm != nil {
		s.alarm.Schedule(s.delay)
	}
}

// Recover leaves the error state and clears. It does nothing outside the error state.
func (s *State) Recover() {
	if !s.failed {
		return
	}
	s.reset()
}

// Failed reports whether the error state is active.
func (s *State) Failed() bool { return s.failed }

// Err returns the error that caused the active error state, if any.
func (s *State) Err() error { return s.err }

// AwaitingReset reports whether the next digit starts a new operand.
func (s *State) AwaitingReset() bool { return s.awaitingReset }

// Pending returns the pending operator, or OpNone.
func (s *State) Pending() Operator { return s.op }

// Current returns the raw current operand text.
func (s *State) Current() string { return s.current.String() }

// Previous returns the raw previous operand text.
func (s *State) Previous() string { return s.previous.String() }

// Display renders both lines and the indicator flags.
func (s *State) Display() Display {
	if s.failed {
		return Display{Current: ErrorText, Error: true}
	}
	return Display{
		Previous: secondaryLine(s.previous.String(), s.op),
		Current:  FormatOperand(s.current.String()),
		Active:   s.op,
	}
}

func isEntrySymbol(r rune) bool {
	return r == '.' || (r >= '0' && r <= '9')
}
