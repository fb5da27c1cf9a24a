package simhash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash/fnv"
	"sort"
)

// DigestFunc maps a shingle's bytes to a fixed-width digest. Any
// deterministic function qualifies as long as every call returns the same
// number of bytes; the pipeline probes the width once per computation and
// fails fast if a later digest comes back with a different length.
// Digest internals are never inspected.
type DigestFunc func([]byte) []byte

// MD5Digest is the default digest (128 bits).
func MD5Digest(data []byte) []byte {
	sum := md5.Sum(data)
	return sum[:]
}

// SHA1Digest produces 160-bit digests.
func SHA1Digest(data []byte) []byte {
	sum := sha1.Sum(data)
	return sum[:]
}

// SHA256Digest produces 256-bit digests.
func SHA256Digest(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// FNV64aDigest produces 64-bit digests. Much cheaper than the
// cryptographic digests; fingerprinting needs dispersion, not collision
// resistance, so this is the fast option.
func FNV64aDigest(data []byte) []byte {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum(nil)
}

// FNV128aDigest produces 128-bit digests.
func FNV128aDigest(data []byte) []byte {
	h := fnv.New128a()
	h.Write(data)
	return h.Sum(nil)
}

var digestRegistry = map[string]DigestFunc{
	"md5":     MD5Digest,
	"sha1":    SHA1Digest,
	"sha256":  SHA256Digest,
	"fnv64a":  FNV64aDigest,
	"fnv128a": FNV128aDigest,
}

// LookupDigest resolves a digest function by name. Valid names are "md5",
// "sha1", "sha256", "fnv64a", and "fnv128a".
func LookupDigest(name string) (DigestFunc, error) {
	d, ok := digestRegistry[name]
	if !ok {
		return nil, fmt.Errorf("simhash: unknown digest %q (have %v)", name, DigestNames())
	}
	return d, nil
}

// DigestNames returns the registered digest names, sorted.
func DigestNames() []string {
	names := make([]string, 0, len(digestRegistry))
	for name := range digestRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
