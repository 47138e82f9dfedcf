package xtg

import (
	"bytes"
	"testing"

	"github.com/leafreader/core/pkg/render"
	"github.com/stretchr/testify/require"
)

func stripes(w, h int) *render.Plane {
	p := render.NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x%3 == 0 {
				p.Set(x, y)
			}
		}
	}
	return p
}

func TestMonochromeRoundTrip(t *testing.T) {
	snap := &Snapshot{Width: 24, Height: 8, Mode: Monochrome, BW: stripes(24, 8)}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	require.Equal(t, magicXTG[:], buf.Bytes()[:4])

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Nil(t, got.Aux)
	require.True(t, snap.BW.Equal(got.BW))
}

func TestDualPlaneRoundTrip(t *testing.T) {
	snap := &Snapshot{Width: 16, Height: 8, Mode: Grayscale4, BW: stripes(16, 8), Aux: render.NewPlane(16, 8)}
	snap.Aux.Set(0, 0)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	require.Equal(t, magicXTH[:], buf.Bytes()[:4])

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.Aux)
	require.True(t, snap.BW.Equal(got.BW))
	require.True(t, snap.Aux.Equal(got.Aux))
}

func TestDecodeRejectsChecksumMismatch(t *testing.T) {
	snap := &Snapshot{Width: 8, Height: 8, Mode: Monochrome, BW: render.NewPlane(8, 8)}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF // corrupt last payload byte without touching the digest
	_, err := Decode(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader(make([]byte, 32)))
	require.ErrorIs(t, err, ErrInvalidMagic)
}
