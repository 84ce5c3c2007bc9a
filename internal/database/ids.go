package database

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// NewID generates a 24-character hexadecimal record identifier:
// a 4-byte unix timestamp followed by 8 random bytes. The timestamp
// prefix keeps ids roughly sortable by creation time.
func NewID() string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		// crypto/rand read on supported platforms does not fail
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
