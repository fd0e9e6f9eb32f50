package tree

import (
	"bytes"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
)

// MarshalJSON encodes t as a JSON object in key order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}

	return t.m.MarshalJSON()
}

// MarshalYAML returns t as a [yaml.MapSlice] so the encoder keeps key order.
func (t *Tree) MarshalYAML() (any, error) {
	if t == nil {
		return nil, nil
	}

	s := make(yaml.MapSlice, 0, t.Len())

	for k, v := range t.All() {
		s = append(s, yaml.MapItem{Key: k, Value: v})
	}

	return s, nil
}

// MarshalCBOR encodes t as a definite-length CBOR map in key order.
func (t *Tree) MarshalCBOR() ([]byte, error) {
	if t == nil {
		return []byte{0xf6}, nil // null
	}

	var buf bytes.Buffer

	buf.Write(cborHead(majorMap, uint64(t.Len())))

	for k, v := range t.All() {
		key, err := cbor.Marshal(k)
		if err != nil {
			return nil, err
		}

		val, err := cbor.Marshal(v)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.Write(val)
	}

	return buf.Bytes(), nil
}

const majorMap = 5

// cborHead encodes the initial byte and argument of a CBOR data item.
func cborHead(major byte, n uint64) []byte {
	m := major << 5

	switch {
	case n < 24:
		return []byte{m | byte(n)}
	case n <= 0xff:
		return []byte{m | 24, byte(n)}
	case n <= 0xffff:
		return []byte{m | 25, byte(n >> 8), byte(n)}
	case n <= 0xffffffff:
		return []byte{
			m | 26,
			byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n),
		}
	default:
		return []byte{
			m | 27,
			byte(n >> 56), byte(n >> 48), byte(n >> 40), byte(n >> 32),
			byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n),
		}
	}
}
