package heliscene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyList(t testing.TB, times ...float64) *KeyList {
	list := &KeyList{}
	for i, time := range times {
		_, err := list.NewKey(time, mgl64.Vec4{float64(i), 0, 0, 0})
		require.NoError(t, err)
	}
	return list
}

func TestKeyListBrackets(t *testing.T) {

	list := newKeyList(t, 0, 1, 2)
	k0, k1, k2 := list.At(0), list.At(1), list.At(2)

	tests := []struct {
		name      string
		t         float64
		low, high *AnimationKey
	}{
		{"before first key", -1, nil, k0},
		{"on first key", 0, k0, k1},
		{"between keys", 0.5, k0, k1},
		{"on middle key", 1, k1, k2},
		{"on last key", 2, k2, nil},
		{"after last key", 3, k2, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			low, high := list.Keys(test.t)
			assert.Same(t, test.low, low)
			assert.Same(t, test.high, high)
		})
	}

}

func TestKeyListEmpty(t *testing.T) {

	list := &KeyList{}
	low, high := list.Keys(0)

	assert.Nil(t, low)
	assert.Nil(t, high)
	assert.Nil(t, list.First())
	assert.Nil(t, list.Last())
	assert.Equal(t, 0, list.Len())

}

func TestKeyListEqualTimes(t *testing.T) {

	list := newKeyList(t, 0, 1, 1, 2)

	// The last of several keys at the same time is the low key
	low, high := list.Keys(1)
	assert.Same(t, list.At(2), low)
	assert.Same(t, list.At(3), high)

	low, high = list.Keys(0.5)
	assert.Same(t, list.At(0), low)
	assert.Same(t, list.At(1), high)

}

func TestKeyListRejectsOutOfOrder(t *testing.T) {

	list := newKeyList(t, 0, 1)

	key, err := list.NewKey(0.5, mgl64.Vec4{})
	assert.ErrorIs(t, err, ErrKeyOutOfOrder)
	assert.Nil(t, key)
	assert.Equal(t, 2, list.Len())

	_, err = list.NewKey(1, mgl64.Vec4{})
	assert.NoError(t, err, "keys at the same time as the last key are allowed")

}

// linearKeys is the straightforward scan that the binary search in KeyList.Keys replaces.
func linearKeys(list *KeyList, t float64) (low, high *AnimationKey) {
	for _, key := range list.keys {
		if key.Time > t {
			return low, key
		}
		low = key
	}
	return low, nil
}

func TestKeyListMatchesLinearScan(t *testing.T) {

	list := newKeyList(t, -1, 0, 0, 0.25, 1, 1, 4, 9)

	for query := -2.0; query <= 10; query += 0.125 {
		low, high := list.Keys(query)
		expectedLow, expectedHigh := linearKeys(list, query)
		assert.Same(t, expectedLow, low, "low at %f", query)
		assert.Same(t, expectedHigh, high, "high at %f", query)
	}

}

func BenchmarkKeyListKeys(b *testing.B) {

	times := make([]float64, 1000)
	for i := range times {
		times[i] = float64(i) / 30
	}
	list := newKeyList(b, times...)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		list.Keys(float64(i%1000) / 30)
	}

}
