package vita

import (
	"bytes"
	"unicode/utf8"
)

// Entry is one key=value token from the announcement payload
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Payload is the ordered list of entries as received
type Payload []Entry

// Get returns the first value stored under key
func (p Payload) Get(key string) (string, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Keys returns the keys in wire order
func (p Payload) Keys() []string {
	keys := make([]string, len(p))
	for i, e := range p {
		keys[i] = e.Key
	}
	return keys
}

// DecodePayload tokenizes the bytes after the header. Tokens are split on
// ASCII whitespace, then on the first '='. Trailing NUL word padding is
// dropped before tokenizing. An empty region yields an empty Payload.
func DecodePayload(data []byte) (Payload, error) {
	data = bytes.TrimRight(data, "\x00")

	if !utf8.Valid(data) {
		return nil, &PayloadDecodeError{Index: -1, Reason: "invalid UTF-8"}
	}

	tokens := bytes.FieldsFunc(data, isASCIISpace)
	entries := make(Payload, 0, len(tokens))
	for i, tok := range tokens {
		key, value, ok := bytes.Cut(tok, []byte{'='})
		if !ok {
			return nil, &PayloadDecodeError{Index: i, Token: string(tok), Reason: "missing '='"}
		}
		entries = append(entries, Entry{Key: string(key), Value: string(value)})
	}

	return entries, nil
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
