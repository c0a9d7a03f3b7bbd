package msgid

import (
	"encoding/binary"
	"strconv"
)

// ComputeMsgID returns the decimal message id for a serialized message and
// its optional meaning. It matches the ids produced by Angular's $localize
// tooling: a 64 bit fingerprint, rotated and mixed with the meaning's
// fingerprint, printed as a 63 bit unsigned decimal.
func ComputeMsgID(msg, meaning string) string {
	fp := Fingerprint(msg)
	if meaning != "" {
		fp = (fp << 1) | (fp >> 63)
		fp += Fingerprint(meaning)
	}
	return strconv.FormatUint(fp&0x7fffffffffffffff, 10)
}

// Fingerprint is the 64 bit closure-compiler message fingerprint of s.
// Not suitable for anything security sensitive.
func Fingerprint(s string) uint64 {
	data := []byte(s)
	hi := hash32(data, 0)
	lo := hash32(data, 102072)
	if hi == 0 && (lo == 0 || lo == 1) {
		hi ^= 0x130f9bef
		lo ^= 0x6b5f56d8
	}
	return uint64(hi)<<32 | uint64(lo)
}

func hash32(data []byte, seed uint32) uint32 {
	a, b, c := uint32(0x9e3779b9), uint32(0x9e3779b9), seed
	n := len(data)

	i := 0
	for ; i+12 <= n; i += 12 {
		a += binary.LittleEndian.Uint32(data[i:])
		b += binary.LittleEndian.Uint32(data[i+4:])
		c += binary.LittleEndian.Uint32(data[i+8:])
		a, b, c = mix(a, b, c)
	}

	// The low byte of c is reserved for the length; tail bytes of the
	// third word start at bit 8.
	c += uint32(n)
	tail := data[i:]
	switch {
	case len(tail) >= 8:
		a += binary.LittleEndian.Uint32(tail)
		b += binary.LittleEndian.Uint32(tail[4:])
		for k, x := range tail[8:] {
			c += uint32(x) << (8 * (k + 1))
		}
	case len(tail) >= 4:
		a += binary.LittleEndian.Uint32(tail)
		for k, x := range tail[4:] {
			b += uint32(x) << (8 * k)
		}
	default:
		for k, x := range tail {
			a += uint32(x) << (8 * k)
		}
	}

	_, _, c = mix(a, b, c)
	return c
}

func mix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= b
	a -= c
	a ^= c >> 13
	b -= c
	b -= a
	b ^= a << 8
	c -= a
	c -= b
	c ^= b >> 13
	a -= b
	a -= c
	a ^= c >> 12
	b -= c
	b -= a
	b ^= a << 16
	c -= a
	c -= b
	c ^= b >> 5
	a -= b
	a -= c
	a ^= c >> 3
	b -= c
	b -= a
	b ^= a << 10
	c -= a
	c -= b
	c ^= b >> 15
	return a, b, c
}
