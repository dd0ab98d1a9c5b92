package proto

import (
	"encoding/binary"
	"fmt"
)

// Error is the body of a MsgError reply.
//
// Layout (little-endian):
//   - u16: code
//   - u16: ref, the request kind that failed
//   - u32: request ID, 0 when the request carried none
type Error struct {
	Code      ErrCode
	Ref       Kind
	RequestID uint32
}

const errorLen = 8

func (e Error) Error() string {
	if e.RequestID != 0 {
		return fmt.Sprintf("%s: %s (request %d)", e.Ref, e.Code, e.RequestID)
	}
	return fmt.Sprintf("%s: %s", e.Ref, e.Code)
}

// Payload encodes e for a MsgError message.
func (e Error) Payload() []byte {
	buf := make([]byte, errorLen)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(e.Code))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(e.Ref))
	binary.LittleEndian.PutUint32(buf[4:8], e.RequestID)
	return buf
}

// DecodeError decodes a MsgError payload. A payload without the request ID
// decodes with RequestID 0.
func DecodeError(payload []byte) (Error, bool) {
	if len(payload) < 4 {
		return Error{}, false
	}
	e := Error{
		Code: ErrCode(binary.LittleEndian.Uint16(payload[0:2])),
		Ref:  Kind(binary.LittleEndian.Uint16(payload[2:4])),
	}
	if len(payload) >= errorLen {
		e.RequestID = binary.LittleEndian.Uint32(payload[4:8])
	}
	return e, true
}
