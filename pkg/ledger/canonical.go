package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalJSON encodes v as canonical JSON bytes: object keys sorted,
// strings NFC-normalized, no insignificant whitespace. Two structurally
// equal values always produce identical bytes, which is what makes the
// chain hashes reproducible.
//
// Non-integer numbers are rejected: float formatting is not stable enough
// across encoders to participate in a hash.
func CanonicalJSON(v any) ([]byte, error) {
	// Round-trip through encoding/json so struct tags apply and numbers
	// arrive as json.Number.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("canonical decode: %w", err)
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, decoded); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch value := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil

	case bool:
		if value {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil

	case string:
		return writeCanonicalString(buf, value)

	case json.Number:
		s := value.String()
		if strings.ContainsAny(s, ".eE") {
			return fmt.Errorf("canonical encode: non-integer number %q not allowed", s)
		}
		buf.WriteString(s)
		return nil

	case []any:
		buf.WriteByte('[')
		for i, elem := range value {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, value[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	default:
		return fmt.Errorf("canonical encode: unsupported type %T", v)
	}
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(norm.NFC.String(s))
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}
