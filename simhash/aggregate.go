package simhash

import "encoding/binary"

// accumulate adds one digest's votes to the accumulator: +1 for every set
// bit, -1 for every clear bit. Bit i is the i-th most significant bit of
// the digest, so bit 0 is the high bit of d[0]. Only the first len(acc)
// bits of the digest are consulted.
//
// This is the only hot loop in the pipeline: it runs once per shingle per
// document. Bits are pulled 64 at a time through binary.BigEndian with a
// per-bit tail; the result is bit-identical to walking the digest one bit
// at a time.
func accumulate(acc []int, d []byte) {
	i := 0
	for ; i+64 <= len(acc); i += 64 {
		word := binary.BigEndian.Uint64(d[i/8:])
		for j := 0; j < 64; j++ {
			if word&(1<<uint(63-j)) != 0 {
				acc[i+j]++
			} else {
				acc[i+j]--
			}
		}
	}
	for ; i < len(acc); i++ {
		if d[i/8]&(1<<uint(7-i%8)) != 0 {
			acc[i]++
		} else {
			acc[i]--
		}
	}
}

// threshold maps the accumulator to output bits: strictly positive
// entries become 1, everything else becomes 0. Ties resolve to 0, which
// also makes the zero-shingle accumulator an all-zero fingerprint.
func threshold(acc []int) []byte {
	out := make([]byte, len(acc))
	for i, v := range acc {
		if v > 0 {
			out[i] = 1
		}
	}
	return out
}

// packBits packs a 0/1 bit sequence MSB-first, eight bits per byte. A
// trailing group of fewer than eight bits lands in the low-order
// positions of the last byte, as if the group were left-padded with zero
// bits.
func packBits(bitSeq []byte) []byte {
	packed := make([]byte, (len(bitSeq)+7)/8)
	full := len(bitSeq) / 8 * 8
	for i := 0; i < full; i++ {
		if bitSeq[i] != 0 {
			packed[i/8] |= 1 << uint(7-i%8)
		}
	}
	if rem := len(bitSeq) - full; rem > 0 {
		last := len(packed) - 1
		for j := 0; j < rem; j++ {
			if bitSeq[full+j] != 0 {
				packed[last] |= 1 << uint(rem-1-j)
			}
		}
	}
	return packed
}

// Unpack reverses the fingerprint packing: it expands packed into a 0/1
// byte per bit for a fingerprint that is n bits wide. For n not a
// multiple of 8 the final bits are read from the low-order positions of
// the last byte, mirroring the packing rule. Returns nil if n does not
// fit in packed.
func Unpack(packed []byte, n int) []byte {
	if n < 0 || n > 8*len(packed) {
		return nil
	}
	bitSeq := make([]byte, n)
	full := n / 8 * 8
	for i := 0; i < full; i++ {
		if packed[i/8]&(1<<uint(7-i%8)) != 0 {
			bitSeq[i] = 1
		}
	}
	if rem := n - full; rem > 0 {
		last := (n - 1) / 8
		for j := 0; j < rem; j++ {
			if packed[last]&(1<<uint(rem-1-j)) != 0 {
				bitSeq[full+j] = 1
			}
		}
	}
	return bitSeq
}
