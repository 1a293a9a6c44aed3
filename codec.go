package alsasync

// Blackboard integers are little-endian regardless of the host byte order.

// DecodeInt reads a little-endian integer of len(b) bytes, 1 to 8. Signed values are
// sign-extended from their top bit.
func DecodeInt(b []byte, signed bool) int64 {
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}

	return PlainInteger(int64(u), len(b), signed)
}

// EncodeInt stores the low len(b) bytes of v in little-endian order.
func EncodeInt(b []byte, v int64) {
	u := uint64(v)
	for i := range b {
		b[i] = byte(u)
		u >>= 8
	}
}

// PlainInteger narrows v to width bytes and widens it back, sign-extending when signed is
// set and zero-extending otherwise.
func PlainInteger(v int64, width int, signed bool) int64 {
	if width <= 0 || width >= 8 {
		return v
	}

	shift := uint(64 - 8*width)
	if signed {
		return v << shift >> shift
	}

	return int64(uint64(v) << shift >> shift)
}
