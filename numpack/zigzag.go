// Package numpack implements the integer packing primitives of the lilliput
// wire format: the zig-zag transform for signed values and big-endian
// byte-width minimization for integer bodies.
package numpack

// ZigZag8 maps a signed 8-bit integer to an unsigned one so that values of
// small magnitude stay small: 0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, ...
func ZigZag8(v int8) uint8 {
	return uint8(v>>7) ^ uint8(v<<1)
}

// ZigZag16 is the 16-bit zig-zag transform.
func ZigZag16(v int16) uint16 {
	return uint16(v>>15) ^ uint16(v<<1)
}

// ZigZag32 is the 32-bit zig-zag transform.
func ZigZag32(v int32) uint32 {
	return uint32(v>>31) ^ uint32(v<<1)
}

// ZigZag64 is the 64-bit zig-zag transform.
func ZigZag64(v int64) uint64 {
	return uint64(v>>63) ^ uint64(v<<1)
}

// UnZigZag8 inverts ZigZag8.
func UnZigZag8(u uint8) int8 {
	return int8(u>>1) ^ -int8(u&1)
}

// UnZigZag16 inverts ZigZag16.
func UnZigZag16(u uint16) int16 {
	return int16(u>>1) ^ -int16(u&1)
}

// UnZigZag32 inverts ZigZag32.
func UnZigZag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// UnZigZag64 inverts ZigZag64.
func UnZigZag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
