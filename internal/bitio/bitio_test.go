package bitio_test

import (
	"errors"
	"testing"

	"github.com/WarFrontIO/MapCodec/internal/bitio"
	"github.com/stretchr/testify/require"
)

func TestWriteBitsReadBitsRoundTrip(t *testing.T) {
	cases := []struct {
		Name  string
		N     int
		Value uint32
	}{
		{"OneBitZero", 1, 0},
		{"OneBitOne", 1, 1},
		{"FourBits", 4, 9},
		{"EightBits", 8, 255},
		{"TenBits", 10, 1023},
		{"SixteenBits", 16, 65535},
		{"ThirtyTwoBits", 32, 0xDEADBEEF},
	}
	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			w := bitio.NewWriter()
			w.WriteBits(c.N, c.Value)
			r := bitio.NewReader(w.Finish())
			got, err := r.ReadBits(c.N)
			require.NoError(t, err)
			require.Equal(t, c.Value, got)
		})
	}
}

func TestMixedWidthFieldsRoundTrip(t *testing.T) {
	w := bitio.NewWriter()
	w.WriteBits(4, 5)
	w.WriteBool(true)
	w.WriteBits(16, 40000)
	w.WriteBool(false)
	w.WriteBits(3, 7)

	r := bitio.NewReader(w.Finish())
	v1, err := r.ReadBits(4)
	require.NoError(t, err)
	require.Equal(t, uint32(5), v1)

	b1, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, b1)

	v2, err := r.ReadBits(16)
	require.NoError(t, err)
	require.Equal(t, uint32(40000), v2)

	b2, err := r.ReadBool()
	require.NoError(t, err)
	require.False(t, b2)

	v3, err := r.ReadBits(3)
	require.NoError(t, err)
	require.Equal(t, uint32(7), v3)
}

func TestWriteStringReadStringRoundTrip(t *testing.T) {
	cases := []struct {
		Name string
		S    string
	}{
		{"Empty", ""},
		{"SingleChar", "a"},
		{"Word", "plains"},
		{"MaxLength", "01234567890123456789012345678901"[:32]},
	}
	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			t.Parallel()

			w := bitio.NewWriter()
			require.NoError(t, w.WriteString(32, c.S))
			r := bitio.NewReader(w.Finish())
			got, err := r.ReadString(32)
			require.NoError(t, err)
			require.Equal(t, c.S, got)
		})
	}
}

func TestWriteStringTooLong(t *testing.T) {
	w := bitio.NewWriter()
	err := w.WriteString(4, "toolong")
	require.Truef(t, errors.Is(err, bitio.ErrStringTooLong), "%v", err)
}

func TestReadBitsTruncated(t *testing.T) {
	w := bitio.NewWriter()
	w.WriteBits(4, 1)
	r := bitio.NewReader(w.Finish())
	if _, err := r.ReadBits(4); err != nil {
		t.Fatalf("first read: %v", err)
	}
	// Finish padded the single byte with 4 zero bits; an 8-bit read runs
	// past the end of the buffer.
	_, err := r.ReadBits(8)
	require.Truef(t, errors.Is(err, bitio.ErrTruncated), "%v", err)
}

func TestReadStringInvalidLength(t *testing.T) {
	w := bitio.NewWriter()
	// The length prefix for maxChars=4 is 3 bits; write a length (7) that
	// exceeds the field's declared maximum.
	w.WriteBits(3, 7)
	r := bitio.NewReader(w.Finish())
	_, err := r.ReadString(4)
	require.Truef(t, errors.Is(err, bitio.ErrInvalidString), "%v", err)
}
