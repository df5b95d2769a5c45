package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	v1, err := e.Embed(context.Background(), "the VPN connection keeps dropping")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "the VPN connection keeps dropping")
	require.NoError(t, err)
	require.Equal(t, v1, v2)
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	e := NewHashEmbedder(32)
	v, err := e.Embed(context.Background(), "database backup failed overnight")
	require.NoError(t, err)

	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	require.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-4)
}

func TestHashEmbedderShortText(t *testing.T) {
	e := NewHashEmbedder(16)
	v, err := e.Embed(context.Background(), "ab")
	require.NoError(t, err)
	for _, x := range v {
		require.Equal(t, float32(0), x)
	}
}
