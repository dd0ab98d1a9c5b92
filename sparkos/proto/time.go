package proto

import "encoding/binary"

// Sleep asks the time service for a MsgWake carrying ID after Ticks kernel
// ticks. Ticks 0 wakes at once.
//
// Layout (little-endian): u32 ID, u32 Ticks.
type Sleep struct {
	ID    uint32
	Ticks uint32
}

func (s Sleep) Payload() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], s.ID)
	binary.LittleEndian.PutUint32(buf[4:8], s.Ticks)
	return buf
}

func DecodeSleep(payload []byte) (Sleep, bool) {
	if len(payload) < 8 {
		return Sleep{}, false
	}
	return Sleep{
		ID:    binary.LittleEndian.Uint32(payload[0:4]),
		Ticks: binary.LittleEndian.Uint32(payload[4:8]),
	}, true
}

// WakePayload is the u32 ID of the Sleep being answered.
func WakePayload(id uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, id)
}

func DecodeWakePayload(payload []byte) (id uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}
