package emvqr

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one decoded data object.
type Entry struct {
	ID     TagID
	Length int
	Value  string
}

// Decode splits a flat TLV text into its data objects. Lengths count
// characters, so multi-byte values decode the way they were encoded.
// Nested templates are left as raw values; pass them to Decode again.
func Decode(payload string) ([]Entry, error) {
	runes := []rune(payload)
	var entries []Entry

	offset := 0
	for offset < len(runes) {
		if offset+4 > len(runes) {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformedPayload, offset)
		}

		id, err := ParseTagID(string(runes[offset : offset+2]))
		if err != nil {
			return nil, fmt.Errorf("%w: offset %d: %v", ErrMalformedPayload, offset, err)
		}

		lengthStr := string(runes[offset+2 : offset+4])
		length, err := strconv.Atoi(lengthStr)
		if err != nil || length < 1 || !numericPattern.MatchString(lengthStr) {
			return nil, fmt.Errorf("%w: bad length %q for tag %s", ErrMalformedPayload, lengthStr, id)
		}
		offset += 4

		if offset+length > len(runes) {
			return nil, fmt.Errorf("%w: truncated value for tag %s: need %d, got %d",
				ErrMalformedPayload, id, length, len(runes)-offset)
		}

		entries = append(entries, Entry{
			ID:     id,
			Length: length,
			Value:  string(runes[offset : offset+length]),
		})
		offset += length
	}

	return entries, nil
}

// Lookup returns the first entry with the given id.
func Lookup(entries []Entry, id TagID) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Verify decodes payload and checks that it ends with a checksum field whose
// value matches the CRC of everything before it.
func Verify(payload string) ([]Entry, error) {
	entries, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	last := entries[len(entries)-1]
	if last.ID != TagCRC || last.Length != crcLength {
		return entries, fmt.Errorf("%w: checksum field must be last with length %02d", ErrMalformedPayload, crcLength)
	}
	for _, e := range entries[:len(entries)-1] {
		if e.ID == TagCRC {
			return entries, fmt.Errorf("%w: checksum field appears more than once", ErrMalformedPayload)
		}
	}

	covered := strings.TrimSuffix(payload, last.Value)
	want := FormatChecksum(Checksum([]byte(covered)))
	if !strings.EqualFold(last.Value, want) {
		return entries, fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, last.Value, want)
	}
	return entries, nil
}
