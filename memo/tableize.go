package memo

import (
	"fmt"

	"github.com/on-the-ground/lazy_ive_go/lazy"
)

func TableizeI1O1[I1 ComparableOrStringer, O1 any](
	pureFn func(I1) O1,
	maxTableSize uint32,
) func(I1) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(argAt[I1](args, 0))
		},
		maxTableSize,
	)
	return func(i1 I1) O1 {
		return tableized(i1)
	}
}

func TableizeI2O1[I1, I2 ComparableOrStringer, O1 any](
	pureFn func(I1, I2) O1,
	maxTableSize uint32,
) func(I1, I2) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(argAt[I1](args, 0), argAt[I2](args, 1))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2) O1 {
		return tableized(i1, i2)
	}
}

func TableizeI3O1[I1, I2, I3 ComparableOrStringer, O1 any](
	pureFn func(I1, I2, I3) O1,
	maxTableSize uint32,
) func(I1, I2, I3) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(argAt[I1](args, 0), argAt[I2](args, 1), argAt[I3](args, 2))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return tableized(i1, i2, i3)
	}
}

func TableizeI4O1[I1, I2, I3, I4 ComparableOrStringer, O1 any](
	pureFn func(I1, I2, I3, I4) O1,
	maxTableSize uint32,
) func(I1, I2, I3, I4) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(argAt[I1](args, 0), argAt[I2](args, 1), argAt[I3](args, 2), argAt[I4](args, 3))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) O1 {
		return tableized(i1, i2, i3, i4)
	}
}

// TableizeI1O2 and the other dual-output variants keep both results of a call
// in a single table entry.
func TableizeI1O2[I1 ComparableOrStringer, O1, O2 any](
	pureFn func(I1) (O1, O2),
	maxTableSize uint32,
) func(I1) (O1, O2) {
	tableized := TableizeI1O1(
		func(i1 I1) pair[O1, O2] {
			return pairOf[O1, O2](pureFn(i1))
		},
		maxTableSize,
	)
	return func(i1 I1) (O1, O2) {
		return tableized(i1).unpack()
	}
}

func TableizeI2O2[I1, I2 ComparableOrStringer, O1, O2 any](
	pureFn func(I1, I2) (O1, O2),
	maxTableSize uint32,
) func(I1, I2) (O1, O2) {
	tableized := TableizeI2O1(
		func(i1 I1, i2 I2) pair[O1, O2] {
			return pairOf[O1, O2](pureFn(i1, i2))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2) (O1, O2) {
		return tableized(i1, i2).unpack()
	}
}

func TableizeI3O2[I1, I2, I3 ComparableOrStringer, O1, O2 any](
	pureFn func(I1, I2, I3) (O1, O2),
	maxTableSize uint32,
) func(I1, I2, I3) (O1, O2) {
	tableized := TableizeI3O1(
		func(i1 I1, i2 I2, i3 I3) pair[O1, O2] {
			return pairOf[O1, O2](pureFn(i1, i2, i3))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2, i3 I3) (O1, O2) {
		return tableized(i1, i2, i3).unpack()
	}
}

func TableizeI4O2[I1, I2, I3, I4 ComparableOrStringer, O1, O2 any](
	pureFn func(I1, I2, I3, I4) (O1, O2),
	maxTableSize uint32,
) func(I1, I2, I3, I4) (O1, O2) {
	tableized := TableizeI4O1(
		func(i1 I1, i2 I2, i3 I3, i4 I4) pair[O1, O2] {
			return pairOf[O1, O2](pureFn(i1, i2, i3, i4))
		},
		maxTableSize,
	)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) (O1, O2) {
		return tableized(i1, i2, i3, i4).unpack()
	}
}

type pair[O1, O2 any] struct {
	o1 O1
	o2 O2
}

func pairOf[O1, O2 any](o1 O1, o2 O2) pair[O1, O2] {
	return pair[O1, O2]{o1: o1, o2: o2}
}

func (p pair[O1, O2]) unpack() (O1, O2) {
	return p.o1, p.o2
}

// argAt returns args[i] as I. A nil interface argument gives the zero value
// of I, so interface-typed parameters accept nil.
func argAt[I any](args []ComparableOrStringer, i int) I {
	v, _ := args[i].(I)
	return v
}

// cell boxes a result so that nil maps, slices and pointers returned by a
// pure function are cached like any other value.
type cell[O any] struct {
	v O
}

func tableKey(i ComparableOrStringer) ComparableOrString {
	if stringer, ok := i.(fmt.Stringer); ok {
		return stringer.String()
	}
	return i
}

func tableize[O any](
	pureFn func(...ComparableOrStringer) O,
	maxTableSize uint32,
) func(...ComparableOrStringer) O {
	memo := NewTrie[*lazy.Concurrent[cell[O]]](maxTableSize)
	return func(args ...ComparableOrStringer) O {
		keys := make([]ComparableOrString, len(args))
		for i, arg := range args {
			keys[i] = tableKey(arg)
		}
		entry, ok := memo.Load(keys)
		if !ok {
			entry, _ = memo.LoadOrStore(keys, lazy.Must(lazy.NewConcurrent(func() (cell[O], error) {
				return cell[O]{v: pureFn(args...)}, nil
			})))
		}
		return lazy.Must(entry.Get()).v
	}
}
