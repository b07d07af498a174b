package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashObject computes the SHA-1 of the canonical envelope
// "type len\0payload" and returns it as a lowercase hex Hash. This is the
// hash-only path: no repository or store is involved.
func HashObject(objType ObjectType, payload []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(payload))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(payload)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
