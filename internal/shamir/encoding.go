package shamir

import (
	"encoding/hex"
	"strings"
)

// Encode renders s as lowercase hex: two characters for X followed by the
// share bytes.
func Encode(s Share) string {
	buf := make([]byte, 0, 1+len(s.Data))
	buf = append(buf, s.X)
	buf = append(buf, s.Data...)
	return hex.EncodeToString(buf)
}

// Decode parses the output of [Encode]. Surrounding whitespace and case are
// ignored.
func Decode(text string) (Share, error) {
	raw, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(text)))
	if err != nil || len(raw) < 2 || raw[0] == 0 {
		return Share{}, ErrInvalidShareFormat
	}
	return Share{X: raw[0], Data: raw[1:]}, nil
}
