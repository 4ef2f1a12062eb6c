package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenPayload = "00020201021129370016A000000677010114011300008097299005204531153037645402505802TH5904test6007Bangkok610510240630443DC"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPayloadCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     string
		contains []string
	}{
		{
			name: "golden",
			args: []string{"payload", "--amount", "50", "--mobile", "0809729900", "--name", "test"},
			want: goldenPayload,
		},
		{
			name:     "merchant_presented_dynamic",
			args:     []string{"payload", "--amount", "50", "--mobile", "0809729900", "--name", "test", "--presented", "merchant", "--poi", "dynamic", "--postal", ""},
			contains: []string{"010212", "0016A000000677010111"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			if tt.want != "" {
				assert.Equal(t, tt.want, strings.TrimSpace(out))
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestPayloadCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing_required_flag", args: []string{"payload", "--amount", "50", "--mobile", "0809729900"}},
		{name: "bad_amount", args: []string{"payload", "--amount", "fifty", "--mobile", "0809729900", "--name", "test"}},
		{name: "bad_mobile", args: []string{"payload", "--amount", "50", "--mobile", "08x", "--name", "test"}},
		{name: "bad_tag", args: []string{"payload", "--amount", "50", "--mobile", "0809729900", "--name", "test", "--tag", "99"}},
		{name: "missing_profile", args: []string{"payload", "--amount", "50", "--mobile", "0809729900", "--name", "test", "--profile", "/nonexistent.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestPayloadCommand_ProfileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("merchant_city: Phuket\npostal_code: \"83000\"\n"), 0o600))

	out, err := run(t, "payload", "--amount", "50", "--mobile", "0809729900", "--name", "test", "--profile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "6006Phuket610583000")

	// Explicit flags win over the file.
	out, err = run(t, "payload", "--amount", "50", "--mobile", "0809729900", "--name", "test", "--profile", path, "--city", "Krabi")
	require.NoError(t, err)
	assert.Contains(t, out, "6005Krabi610583000")
}

func TestPNGCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")

	out, err := run(t, "png", "--amount", "50", "--mobile", "0809729900", "--name", "test", "--out", path, "--size", "256", "--level", "medium")
	require.NoError(t, err)
	assert.Contains(t, out, goldenPayload)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", goldenPayload)
	require.NoError(t, err)
	assert.Contains(t, out, "29 (37)\n  00 (16) A000000677010114\n  01 (13) 0000809729900\n")
	assert.Contains(t, out, "63 (04) 43DC")
	assert.Contains(t, out, "checksum OK")

	_, err = run(t, "decode", goldenPayload[:len(goldenPayload)-4]+"FFFF")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")

	_, err = run(t, "decode")
	assert.Error(t, err)
}
