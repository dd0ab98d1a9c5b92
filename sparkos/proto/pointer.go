package proto

import "encoding/binary"

// PointerPayload encodes a MsgPointer payload.
//
// Layout (little-endian):
//   - i16: x (framebuffer pixels)
//   - i16: y (framebuffer pixels)
//   - u8: 1 = press, 0 = release
func PointerPayload(x, y int16, press bool) []byte {
	buf := make([]byte, 5)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(x))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(y))
	if press {
		buf[4] = 1
	}
	return buf
}

// DecodePointerPayload decodes a PointerPayload.
func DecodePointerPayload(payload []byte) (x, y int16, press bool, ok bool) {
	if len(payload) < 5 {
		return 0, 0, false, false
	}
	x = int16(binary.LittleEndian.Uint16(payload[0:2]))
	y = int16(binary.LittleEndian.Uint16(payload[2:4]))
	return x, y, payload[4] != 0, true
}
