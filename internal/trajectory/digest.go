package trajectory

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// DomainTable separates table digests from any other hash of the same bytes.
const DomainTable = "trajectory/table/v1"

// digestTable computes SHA256(domain + 0x00 + records), each record encoded as
// four big-endian 8-byte fields in column order.
func digestTable(t Table) string {
	h := sha256.New()
	h.Write([]byte(DomainTable))
	h.Write([]byte{0x00})

	var buf [32]byte
	for _, r := range t {
		binary.BigEndian.PutUint64(buf[0:8], math.Float64bits(r.TimeIndex))
		binary.BigEndian.PutUint64(buf[8:16], uint64(r.ObjectID))
		binary.BigEndian.PutUint64(buf[16:24], math.Float64bits(r.Latitude))
		binary.BigEndian.PutUint64(buf[24:32], math.Float64bits(r.Longitude))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
