package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAmountMarshalJSONIsBareInteger(t *testing.T) {
	a := NewAmount(5000)
	data, err := a.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, "5000", string(data))
}

func TestAmountUnmarshalJSONAcceptsBareOrQuoted(t *testing.T) {
	var a Amount
	require.NoError(t, a.UnmarshalJSON([]byte("5000")))
	require.Equal(t, "5000", a.String())

	var b Amount
	require.NoError(t, b.UnmarshalJSON([]byte(`"5000"`)))
	require.Equal(t, "5000", b.String())
}

func TestAmountSubUnderflow(t *testing.T) {
	_, underflow := NewAmount(10).Sub(NewAmount(20))
	require.True(t, underflow)

	result, underflow := NewAmount(20).Sub(NewAmount(10))
	require.False(t, underflow)
	require.Equal(t, "10", result.String())
}

func TestAmountLessThan(t *testing.T) {
	require.True(t, NewAmount(1).LessThan(NewAmount(2)))
	require.False(t, NewAmount(2).LessThan(NewAmount(2)))
}
