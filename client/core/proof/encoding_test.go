package proof

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/zkverify/client/core/zkerrors"
)

func TestEncoder_Encode(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		text    string
		want    []byte
		wantErr bool
	}{
		{"raw text", FormatAuto, "p1", []byte("p1"), false},
		{"raw text keeps spacing", FormatText, " p1 ", []byte(" p1 "), false},
		{"hex", FormatAuto, "0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}, false},
		{"hex upper prefix", FormatAuto, "0XDEAD", []byte{0xde, 0xad}, false},
		{"hex with surrounding space", FormatAuto, "  0x01\n", []byte{0x01}, false},
		{"empty", FormatAuto, "", nil, true},
		{"whitespace only", FormatAuto, " \t\n", nil, true},
		{"odd hex", FormatAuto, "0xabc", nil, true},
		{"bad hex digit", FormatAuto, "0xzz", nil, true},
		{"bare prefix", FormatAuto, "0x", nil, true},
		{"forced hex without prefix", FormatHex, "abcd", nil, true},
		{"invalid utf8", FormatText, string([]byte{0xff, 0xfe}), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEncoder(tt.format).Encode(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, zkerrors.ErrInvalidProofEncoding))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncoder_FreshResultPerCall(t *testing.T) {
	enc := NewEncoder(FormatAuto)

	first, err := enc.Encode("p1")
	require.NoError(t, err)
	second, err := enc.Encode("p2")
	require.NoError(t, err)

	assert.Equal(t, []byte("p1"), first)
	assert.Equal(t, []byte("p2"), second)
}

func TestEncoder_SnarkJS(t *testing.T) {
	text := `{
		"pi_a": ["1", "2", "1"],
		"pi_b": [["3", "4"], ["5", "6"], ["1", "0"]],
		"pi_c": ["7", "0x08", "1"],
		"protocol": "groth16",
		"curve": "bn128"
	}`

	got, err := NewEncoder(FormatAuto).Encode(text)
	require.NoError(t, err)
	require.Len(t, got, 256)

	// a.x a.y b.x1 b.x0 b.y1 b.y0 c.x c.y
	want := []int64{1, 2, 4, 3, 6, 5, 7, 8}
	for i, w := range want {
		word := new(big.Int).SetBytes(got[i*32 : (i+1)*32])
		assert.Equal(t, w, word.Int64(), "word %d", i)
	}
}

func TestEncoder_SnarkJSErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"broken json", `{"pi_a": [`},
		{"wrong protocol", `{"pi_a":["1","2"],"pi_b":[["1","2"],["3","4"]],"pi_c":["1","2"],"protocol":"plonk"}`},
		{"missing points", `{"pi_a":["1"],"pi_b":[["1","2"],["3","4"]],"pi_c":["1","2"]}`},
		{"negative element", `{"pi_a":["-1","2"],"pi_b":[["1","2"],["3","4"]],"pi_c":["1","2"]}`},
		{"not a number", `{"pi_a":["x","2"],"pi_b":[["1","2"],["3","4"]],"pi_c":["1","2"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder(FormatSnarkJS).Encode(tt.text)
			require.Error(t, err)
			assert.Equal(t, zkerrors.KindInvalidProofEncoding, zkerrors.KindOf(err))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	f, err = ParseFormat(" SnarkJS ")
	require.NoError(t, err)
	assert.Equal(t, FormatSnarkJS, f)

	_, err = ParseFormat("base64")
	assert.True(t, errors.Is(err, zkerrors.ErrInvalidProofEncoding))
}

func TestEncoder_HexRoundTripOfText(t *testing.T) {
	got, err := NewEncoder(FormatAuto).Encode("0x" + hex.EncodeToString([]byte("p1")))
	require.NoError(t, err)
	assert.Equal(t, []byte("p1"), got)
}
