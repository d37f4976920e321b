package store

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// Key prefixes for LevelDB
	PrefixSnapshot = "snap:"
	PrefixMeta     = "meta:"
)

// snapshotKeyLen is the prefix, 8 bytes of capture time and 4 of sequence.
const snapshotKeyLen = len(PrefixSnapshot) + 8 + 4

// EncodeSnapshotKey creates the key of an observation.
// Format: "snap:" + 8-byte big-endian unix nanos + 4-byte big-endian sequence,
// so keys sort by capture time.
func EncodeSnapshotKey(capturedAt time.Time, seq uint32) []byte {
	key := make([]byte, snapshotKeyLen)
	copy(key, PrefixSnapshot)
	binary.BigEndian.PutUint64(key[len(PrefixSnapshot):], unixNanos(capturedAt))
	binary.BigEndian.PutUint32(key[len(PrefixSnapshot)+8:], seq)
	return key
}

// DecodeSnapshotKey extracts the capture time and sequence from a key.
func DecodeSnapshotKey(key []byte) (time.Time, uint32, error) {
	if len(key) != snapshotKeyLen || string(key[:len(PrefixSnapshot)]) != PrefixSnapshot {
		return time.Time{}, 0, fmt.Errorf("invalid snapshot key %q", key)
	}
	nanos := binary.BigEndian.Uint64(key[len(PrefixSnapshot):])
	seq := binary.BigEndian.Uint32(key[len(PrefixSnapshot)+8:])
	return time.Unix(0, int64(nanos)).UTC(), seq, nil
}

// MetaKey creates a metadata key
func MetaKey(suffix string) []byte {
	return []byte(PrefixMeta + suffix)
}

// unixNanos clamps times before the epoch to zero so keys stay ordered.
func unixNanos(t time.Time) uint64 {
	n := t.UnixNano()
	if n < 0 {
		return 0
	}
	return uint64(n)
}
