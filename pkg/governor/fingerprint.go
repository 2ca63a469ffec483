package governor

import (
	"crypto/sha256"
	"encoding/hex"
)

// payloadFingerprint digests the fields that define a request's logical
// identity: action, target path, and content. Two requests with the same
// request ID must present the same fingerprint to count as the same
// logical action. Field boundaries are NUL-delimited so concatenation
// cannot collide across fields.
func payloadFingerprint(req *DecisionRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Action))
	h.Write([]byte{0})
	h.Write([]byte(req.TargetPath))
	h.Write([]byte{0})
	h.Write([]byte(req.Content))
	return hex.EncodeToString(h.Sum(nil))
}
