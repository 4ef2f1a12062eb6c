package emvqr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenPayload = "00020201021129370016A000000677010114011300008097299005204531153037645402505802TH5904test6007Bangkok610510240630443DC"

func TestDecode(t *testing.T) {
	entries, err := Decode(goldenPayload)
	require.NoError(t, err)
	require.Len(t, entries, 11)

	assert.Equal(t, Entry{ID: "00", Length: 2, Value: "02"}, entries[0])
	assert.Equal(t, Entry{ID: "63", Length: 4, Value: "43DC"}, entries[len(entries)-1])

	mai, ok := Lookup(entries, "29")
	require.True(t, ok)
	assert.Equal(t, 37, mai.Length)

	sub, err := Decode(mai.Value)
	require.NoError(t, err)
	require.Len(t, sub, 2)
	assert.Equal(t, "A000000677010114", sub[0].Value)
	assert.Equal(t, "0000809729900", sub[1].Value)

	_, ok = Lookup(entries, "62")
	assert.False(t, ok)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "truncated_header", input: "000"},
		{name: "bad_tag", input: "x00102"},
		{name: "bad_length", input: "00x202"},
		{name: "signed_length", input: "00+102"},
		{name: "zero_length", input: "0000"},
		{name: "truncated_value", input: "000502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "golden", input: goldenPayload},
		{
			name:  "lowercase_checksum",
			input: goldenPayload[:len(goldenPayload)-4] + "43dc",
		},
		{
			name:    "tampered_amount",
			input:   "00020201021129370016A000000677010114011300008097299005204531153037645402605802TH5904test6007Bangkok610510240630443DC",
			wantErr: ErrChecksumMismatch,
		},
		{
			name:    "tampered_checksum",
			input:   goldenPayload[:len(goldenPayload)-4] + "43DD",
			wantErr: ErrChecksumMismatch,
		},
		{
			name:    "checksum_not_last",
			input:   "0002026304ABCD5802TH",
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "no_checksum",
			input:   "000202",
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "duplicate_checksum",
			input:   "0002026304ABCD6304ABCD",
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	p := NewPayload()
	require.NoError(t, p.SetPayloadFormatIndicator("02"))
	require.NoError(t, p.SetPointOfInitiation(DynamicPoint))
	require.NoError(t, p.SetMerchantName("Coffee Shop"))
	require.NoError(t, p.SetTransactionAmount("120.50"))

	payload, err := p.Build()
	require.NoError(t, err)

	entries, err := Verify(payload)
	require.NoError(t, err)

	amount, ok := Lookup(entries, TagTransactionAmount)
	require.True(t, ok)
	assert.Equal(t, "120.50", amount.Value)

	crc, ok := Lookup(entries, TagCRC)
	require.True(t, ok)
	assert.Equal(t, p.Checksum(), crc.Value)
}
