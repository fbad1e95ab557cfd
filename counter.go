package timesync

// Counter16, Counter23 and Counter24 are unsigned integers reduced modulo
// 2^16, 2^23 and 2^24 respectively. They wrap around arithmetic overflow
// the way a wire-format truncated clock counter does.
type (
	Counter16 uint16
	Counter23 uint32
	Counter24 uint32
)

const (
	bits16 = 16
	bits23 = 23
	bits24 = 24
)

// maskFor returns the low-bits mask for a counter of the given width.
func maskFor(bits uint) uint64 {
	return (uint64(1) << bits) - 1
}

// truncate returns full reduced modulo 2^bits.
func truncate(full uint64, bits uint) uint64 {
	return full & maskFor(bits)
}

// unsignedDiff returns (a - b) mod 2^bits.
func unsignedDiff(a, b uint64, bits uint) uint64 {
	mask := maskFor(bits)
	return (a - b) & mask
}

// signedDiff returns the unique value in [-2^(bits-1), 2^(bits-1)) congruent
// to a-b mod 2^bits, by sign-extending bit (bits-1) of the unsigned
// difference. At the exact half-range boundary this picks the negative
// branch, matching two's-complement sign extension.
func signedDiff(a, b uint64, bits uint) int64 {
	d := unsignedDiff(a, b, bits)
	half := uint64(1) << (bits - 1)
	if d >= half {
		return int64(d) - int64(uint64(1)<<bits)
	}
	return int64(d)
}

// reconstruct returns the integer whose low bits bits equal c and that is
// nearest to reference: start from the reference with its low bits
// replaced by c, then shift down by 2^bits if that lands half the range or
// more above reference, or up by 2^bits if it lands more than half the
// range below.
func reconstruct(reference uint64, c uint64, bits uint) uint64 {
	mask := maskFor(bits)
	base := (reference &^ mask) | (c & mask)
	half := int64(1) << (bits - 1)
	span := int64(uint64(1) << bits)
	diff := int64(base) - int64(reference)
	switch {
	case diff >= half:
		base -= uint64(span)
	case diff < -half:
		base += uint64(span)
	}
	return base
}

// --- Counter24 ---

// TruncateCounter24 reduces a full-width microsecond time to its low 24 bits.
func TruncateCounter24(full uint64) Counter24 {
	return Counter24(truncate(full, bits24))
}

// UnsignedDiff24 returns (a - b) mod 2^24.
func UnsignedDiff24(a, b Counter24) Counter24 {
	return Counter24(unsignedDiff(uint64(a), uint64(b), bits24))
}

// SignedDiff24 returns the signed difference a-b in [-2^23, 2^23).
func SignedDiff24(a, b Counter24) int32 {
	return int32(signedDiff(uint64(a), uint64(b), bits24))
}

// Reconstruct24 returns the full-width value nearest reference whose low 24
// bits equal c.
func Reconstruct24(reference uint64, c Counter24) uint64 {
	return reconstruct(reference, uint64(c), bits24)
}

// Signed reinterprets the counter's low 24 bits as a signed two's-complement
// value in [-2^23, 2^23), i.e. SignedDiff24(c, 0).
func (c Counter24) Signed() int32 {
	return SignedDiff24(c, 0)
}

// Uint32 returns the raw modular value.
func (c Counter24) Uint32() uint32 {
	return uint32(c)
}

// --- Counter23 ---

// TruncateCounter23 reduces a full-width value to its low 23 bits.
func TruncateCounter23(full uint64) Counter23 {
	return Counter23(truncate(full, bits23))
}

// UnsignedDiff23 returns (a - b) mod 2^23.
func UnsignedDiff23(a, b Counter23) Counter23 {
	return Counter23(unsignedDiff(uint64(a), uint64(b), bits23))
}

// SignedDiff23 returns the signed difference a-b in [-2^22, 2^22).
func SignedDiff23(a, b Counter23) int32 {
	return int32(signedDiff(uint64(a), uint64(b), bits23))
}

// Reconstruct23 returns the full-width value nearest reference whose low 23
// bits equal c.
func Reconstruct23(reference uint64, c Counter23) uint64 {
	return reconstruct(reference, uint64(c), bits23)
}

// Uint32 returns the raw modular value.
func (c Counter23) Uint32() uint32 {
	return uint32(c)
}

// --- Counter16 ---

// TruncateCounter16 reduces a full-width value to its low 16 bits.
func TruncateCounter16(full uint64) Counter16 {
	return Counter16(truncate(full, bits16))
}

// UnsignedDiff16 returns (a - b) mod 2^16.
func UnsignedDiff16(a, b Counter16) Counter16 {
	return Counter16(unsignedDiff(uint64(a), uint64(b), bits16))
}

// SignedDiff16 returns the signed difference a-b in [-2^15, 2^15).
func SignedDiff16(a, b Counter16) int32 {
	return int32(signedDiff(uint64(a), uint64(b), bits16))
}

// Reconstruct16 returns the full-width value nearest reference whose low 16
// bits equal c.
func Reconstruct16(reference uint64, c Counter16) uint64 {
	return reconstruct(reference, uint64(c), bits16)
}

// Uint32 returns the raw modular value.
func (c Counter16) Uint32() uint32 {
	return uint32(c)
}
