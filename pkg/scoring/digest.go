// Package scoring derives the ATS and LinkedIn scores shown to users.
//
// Every number is a pure function of the MD5 digest of the scored
// identifier, so the same filename or profile URL always produces the same
// result within a tier.
package scoring

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

type digest string

func newDigest(id string) digest {
	sum := md5.Sum([]byte(id))
	return digest(hex.EncodeToString(sum[:]))
}

// byteAt returns the value of the i-th hex pair (0-based).
func (d digest) byteAt(i int) int {
	v, _ := strconv.ParseUint(string(d[2*i:2*i+2]), 16, 8)
	return int(v)
}

// ranged maps the i-th hex pair onto [lo, lo+span).
func (d digest) ranged(i, span, lo int) int {
	return d.byteAt(i)%span + lo
}
