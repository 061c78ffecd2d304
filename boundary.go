package mailkit

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// boundaryEntropyBytes gives 256 bits of entropy, comfortably above
// the 128-bit floor spec.md §4.5 requires.
const boundaryEntropyBytes = 32

// GenerateBoundary produces a fresh multipart boundary token: ASCII
// letters, digits, '+' and '/', never starting with '-', with no
// CR/LF/space, unlikely to collide with any line a body assembled
// without inspection could contain (spec.md §4.5). Grounded on the
// teacher's RandomBoundary, which reads crypto/rand into a fixed
// buffer and hex-encodes it; mailkit base64-encodes instead so the
// token also carries '+' and '/' as the spec allows.
func GenerateBoundary() string {
	var buf [boundaryEntropyBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Errorf("mailkit: generating boundary: %w", err))
	}
	token := "mailkit" + base64.RawStdEncoding.EncodeToString(buf[:])
	defaultLogger.Debugf("mailkit: generated boundary %s", token)
	return token
}
