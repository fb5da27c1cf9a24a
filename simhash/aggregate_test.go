package simhash

import (
	"bytes"
	"math/rand"
	"testing"
)

// referenceAccumulate is the naive per-bit walk from the SimHash
// definition. The chunked accumulator must match it exactly for every
// digest size and bit count.
func referenceAccumulate(acc []int, d []byte) {
	for i := range acc {
		if d[i/8]&(1<<uint(7-i%8)) != 0 {
			acc[i]++
		} else {
			acc[i]--
		}
	}
}

func TestAccumulate_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, nbytes := range []int{1, 2, 7, 8, 9, 16, 20, 32, 33} {
		for trial := 0; trial < 20; trial++ {
			d := make([]byte, nbytes)
			rng.Read(d)

			nbits := 8 * nbytes
			if trial%3 == 0 && nbits > 8 {
				// Also exercise truncated bit widths.
				nbits -= 1 + rng.Intn(7)
			}

			got := make([]int, nbits)
			accumulate(got, d)

			want := make([]int, nbits)
			referenceAccumulate(want, d)

			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("digest %x, %d bits: accumulator differs at bit %d: got %d, want %d",
						d, nbits, i, got[i], want[i])
				}
			}
		}
	}
}

func TestAccumulate_Sums(t *testing.T) {
	acc := make([]int, 16)
	accumulate(acc, []byte{0xFF, 0x00})
	accumulate(acc, []byte{0xFF, 0x00})
	accumulate(acc, []byte{0x00, 0xFF})

	for i := 0; i < 8; i++ {
		if acc[i] != 1 {
			t.Errorf("high byte bit %d: got %d, want 1", i, acc[i])
		}
	}
	for i := 8; i < 16; i++ {
		if acc[i] != -1 {
			t.Errorf("low byte bit %d: got %d, want -1", i, acc[i])
		}
	}
}

func TestThreshold(t *testing.T) {
	got := threshold([]int{-3, 0, 1, 42, -1, 2})
	want := []byte{0, 0, 1, 1, 0, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("threshold = %v, want %v", got, want)
	}
}

func TestPackBits(t *testing.T) {
	tests := []struct {
		name string
		bits []byte
		want []byte
	}{
		{"empty", nil, []byte{}},
		{"one byte", []byte{1, 0, 1, 0, 1, 0, 1, 0}, []byte{0xAA}},
		{"all ones", []byte{1, 1, 1, 1, 1, 1, 1, 1}, []byte{0xFF}},
		{"two bytes", []byte{1, 0, 0, 0, 0, 0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 0}, []byte{0x81, 0x7E}},
		{"three trailing bits", []byte{1, 1, 0}, []byte{0x06}},
		{"twelve bits", []byte{1, 1, 1, 1, 0, 0, 0, 0, 1, 0, 1, 1}, []byte{0xF0, 0x0B}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := packBits(tt.bits)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("packBits(%v) = %x, want %x", tt.bits, got, tt.want)
			}
		})
	}
}

func TestPackBits_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 0; n <= 40; n++ {
		bitSeq := make([]byte, n)
		for i := range bitSeq {
			bitSeq[i] = byte(rng.Intn(2))
		}

		packed := packBits(bitSeq)
		if wantLen := (n + 7) / 8; len(packed) != wantLen {
			t.Fatalf("%d bits packed into %d bytes, want %d", n, len(packed), wantLen)
		}

		if rem := n % 8; rem != 0 && n > 0 {
			// The unused high-order positions of the last byte must be zero.
			if packed[len(packed)-1]>>uint(rem) != 0 {
				t.Errorf("%d bits: high bits of last byte not zero: %08b", n, packed[len(packed)-1])
			}
		}

		unpacked := Unpack(packed, n)
		if !bytes.Equal(unpacked, bitSeq) {
			t.Errorf("%d bits: round trip mismatch:\n got %v\nwant %v", n, unpacked, bitSeq)
		}
	}
}

func TestUnpack_BadLength(t *testing.T) {
	if got := Unpack([]byte{0xFF}, 9); got != nil {
		t.Errorf("Unpack with too many bits should return nil, got %v", got)
	}
	if got := Unpack(nil, -1); got != nil {
		t.Errorf("Unpack with negative bits should return nil, got %v", got)
	}
}
