// Package proto defines the message kinds exchanged between tasks and their
// little-endian payload codecs.
package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	// MsgLogLine is one UTF-8 log line for the logger service.
	MsgLogLine Kind = iota + 1
	// MsgSleep asks the time service for a MsgWake; Cap is the reply.
	MsgSleep
	// MsgWake answers a MsgSleep.
	MsgWake
	// MsgError refuses a request; see Error.
	MsgError
	// MsgTermInput carries raw VT100 key bytes for the calculator.
	MsgTermInput
	// MsgPointer carries one pointer transition in framebuffer pixels.
	MsgPointer
	// MsgCalcDisplay is a calculator display snapshot.
	MsgCalcDisplay
	// MsgCalcQuery asks for one MsgCalcDisplay on Cap.
	MsgCalcQuery
	// MsgCalcSubscribe asks for a MsgCalcDisplay on Cap after every change.
	MsgCalcSubscribe
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgSleep:
		return "sleep"
	case MsgWake:
		return "wake"
	case MsgError:
		return "error"
	case MsgTermInput:
		return "term_input"
	case MsgPointer:
		return "pointer"
	case MsgCalcDisplay:
		return "calc_display"
	case MsgCalcQuery:
		return "calc_query"
	case MsgCalcSubscribe:
		return "calc_subscribe"
	default:
		return "unknown"
	}
}

// ErrCode is why a request was refused.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	// ErrBadMessage means the payload did not decode.
	ErrBadMessage
	// ErrOverflow means the service has no room for another request.
	ErrOverflow
)

func (c ErrCode) String() string {
	switch c {
	case ErrBadMessage:
		return "bad_message"
	case ErrOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}
