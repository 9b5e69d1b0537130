package heliscene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// AnimationKey is a single keyframe: a value at a point in time. Rotation keys hold a quaternion as X, Y, Z, W.
type AnimationKey struct {
	Time  float64
	Value mgl64.Vec4
}

// KeyList is a list of AnimationKeys ordered by ascending time.
type KeyList struct {
	keys []*AnimationKey
}

// NewKey appends a new key to the list and returns it. Keys must be added in non-decreasing time order; a key earlier than
// the last key is rejected with ErrKeyOutOfOrder. Keys with equal times are allowed.
func (list *KeyList) NewKey(time float64, value mgl64.Vec4) (*AnimationKey, error) {

	if last := list.Last(); last != nil && time < last.Time {
		return nil, errors.Wrapf(ErrKeyOutOfOrder, "key at %f added after key at %f", time, last.Time)
	}

	key := &AnimationKey{Time: time, Value: value}
	list.keys = append(list.keys, key)
	return key, nil

}

// Keys returns the pair of keys bracketing the given time: low is the last key whose time is at or before t, and high is
// the first key whose time is after t. If t is before the first key, low is nil; if t is at or after the last key, high is
// nil; if the list is empty, both are nil.
func (list *KeyList) Keys(t float64) (low, high *AnimationKey) {

	i := sort.Search(len(list.keys), func(i int) bool { return list.keys[i].Time > t })

	if i > 0 {
		low = list.keys[i-1]
	}

	if i < len(list.keys) {
		high = list.keys[i]
	}

	return

}

// Len returns the number of keys in the list.
func (list *KeyList) Len() int {
	return len(list.keys)
}

// At returns the key at the given index.
func (list *KeyList) At(index int) *AnimationKey {
	return list.keys[index]
}

// First returns the earliest key, or nil if the list is empty.
func (list *KeyList) First() *AnimationKey {
	if len(list.keys) == 0 {
		return nil
	}
	return list.keys[0]
}

// Last returns the latest key, or nil if the list is empty.
func (list *KeyList) Last() *AnimationKey {
	if len(list.keys) == 0 {
		return nil
	}
	return list.keys[len(list.keys)-1]
}
