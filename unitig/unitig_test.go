// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package unitig_test

import (
	"math"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bifrost/coverage"
	"github.com/grailbio/bifrost/unitig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tags struct {
	colors []string
}

func TestMapValidate(t *testing.T) {
	tests := []struct {
		m  unitig.Map
		ok bool
	}{
		{unitig.NewMap(0, 0, 1, 1, true), true},
		{unitig.NewMap(0, 3, 7, 10, false), true},
		{unitig.NewMap(0, 3, 8, 10, true), false},
		{unitig.NewMap(0, -1, 2, 10, true), false},
		{unitig.NewMap(0, 2, 0, 10, true), false},
		{unitig.NewMap(0, math.MaxInt64, 1, 10, true), false},
		{unitig.NewMap(0, 1, math.MaxInt64, 10, false), false},
		{unitig.NewMap(0, 0, 11, 10, true), false},
		{unitig.EmptyMap(), false},
	}
	for _, test := range tests {
		err := test.m.Validate()
		if test.ok {
			assert.NoError(t, err, "%v", test.m)
		} else {
			assert.True(t, errors.Is(errors.Invalid, err), "%v: %v", test.m, err)
		}
	}
	assert.Equal(t, "{unitig:4 [3,10) of 10 -}", unitig.NewMap(4, 3, 7, 10, false).String())
	assert.Equal(t, "{empty}", unitig.EmptyMap().String())
}

func TestUnitigCover(t *testing.T) {
	u := unitig.New[tags]("u1", 10, false)
	require.Equal(t, 10, u.Len())
	require.NoError(t, u.Cover(unitig.NewMap(0, 2, 3, 10, true)))
	require.NoError(t, u.Cover(unitig.NewMap(0, 2, 3, 10, false)))
	assert.Equal(t, uint8(coverage.CovFull), u.Coverage.Cov.CovAt(2))
	assert.Equal(t, uint8(0), u.Coverage.Cov.CovAt(5))

	// Size mismatch between the mapping and the unitig.
	err := u.Cover(unitig.NewMap(0, 2, 3, 11, true))
	assert.True(t, errors.Is(errors.Invalid, err))

	nLow, total, needSplit := u.LowCoverage()
	assert.Equal(t, 7, nLow)
	assert.Equal(t, 6, total)
	assert.True(t, needSplit)
}

func TestLowCoverageNeedSplit(t *testing.T) {
	// Nothing saturated: the whole unitig is one low piece.
	u := unitig.New[coverage.NoData]("u", 40, false)
	nLow, total, needSplit := u.LowCoverage()
	assert.Equal(t, 40, nLow)
	assert.Equal(t, 0, total)
	assert.True(t, needSplit)

	// Saturated by covering, but not in full mode.
	u.Coverage.Cov.Cover(0, 40)
	u.Coverage.Cov.Cover(0, 40)
	_, _, needSplit = u.LowCoverage()
	assert.False(t, needSplit)

	u.Coverage.Cov.SetFull()
	nLow, total, needSplit = u.LowCoverage()
	assert.Equal(t, 0, nLow)
	assert.Equal(t, 80, total)
	assert.False(t, needSplit)
}

func TestSplit(t *testing.T) {
	for _, size := range []int{12, 60} {
		u := unitig.New[tags]("u", size, false)
		u.Coverage.SetData(tags{colors: []string{"red"}})
		for i := 0; i < 2; i++ {
			require.NoError(t, u.Cover(unitig.NewMap(0, 2, 4, size, true)))
		}
		require.NoError(t, u.Cover(unitig.NewMap(0, 7, 2, size, true)))

		pieces := u.Split()
		require.Len(t, pieces, 3)
		assert.Equal(t, 0, pieces[0].Start)
		assert.Equal(t, 2, pieces[0].End)
		assert.False(t, pieces[0].Full)
		assert.Equal(t, 2, pieces[1].Start)
		assert.Equal(t, 6, pieces[1].End)
		assert.True(t, pieces[1].Full)
		assert.Equal(t, 6, pieces[2].Start)
		assert.Equal(t, size, pieces[2].End)

		full := pieces[1].Unitig
		assert.Equal(t, "u:2-6", full.Name)
		assert.True(t, full.Coverage.Cov.IsFull())
		assert.Equal(t, 4, full.Len())
		assert.Equal(t, []string{"red"}, full.Coverage.Data().colors)

		rest := pieces[2].Unitig
		assert.Equal(t, size-6, rest.Len())
		assert.Equal(t, uint8(0), rest.Coverage.Cov.CovAt(0))
		assert.Equal(t, uint8(1), rest.Coverage.Cov.CovAt(1))
		assert.Equal(t, uint8(1), rest.Coverage.Cov.CovAt(2))
		rest.Coverage.Cov.Check("rest")

		// Splitting leaves u alone.
		assert.Equal(t, uint8(coverage.CovFull), u.Coverage.Cov.CovAt(2))
		rest.Coverage.Cov.Cover(0, 1)
		assert.Equal(t, uint8(0), u.Coverage.Cov.CovAt(6))
	}
}

func TestSplitSinglePieceIsIndependent(t *testing.T) {
	u := unitig.New[int]("u", 5, false)
	u.Coverage.SetData(3)
	pieces := u.Split()
	require.Len(t, pieces, 1)
	p := pieces[0].Unitig
	assert.Equal(t, 3, p.Coverage.Data())
	p.Coverage.Cov.Cover(0, 5)
	assert.Equal(t, uint8(0), u.Coverage.Cov.CovAt(0))
}

func TestSet(t *testing.T) {
	s := unitig.NewSet[coverage.NoData]()
	i, err := s.Add("a", 10, false)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	i, err = s.Add("b", 50, true)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = s.Add("a", 3, false)
	assert.True(t, errors.Is(errors.Invalid, err))
	_, err = s.Add("c", 0, false)
	assert.True(t, errors.Is(errors.Invalid, err))
	_, err = s.Add("c", math.MaxUint32+1, false)
	assert.True(t, errors.Is(errors.Invalid, err))

	assert.Equal(t, 2, s.Len())
	j, ok := s.Index("b")
	assert.True(t, ok)
	assert.Equal(t, 1, j)
	_, ok = s.Index("c")
	assert.False(t, ok)

	require.NoError(t, s.Cover(unitig.NewMap(0, 0, 10, 10, true)))
	assert.Equal(t, uint8(1), s.At(0).Coverage.Cov.CovAt(9))
	require.NoError(t, s.Cover(unitig.NewMap(1, 0, 10, 50, true)))
	assert.True(t, s.At(1).Coverage.Cov.IsFull())

	err = s.Cover(unitig.NewMap(2, 0, 1, 1, true))
	assert.True(t, errors.Is(errors.NotExist, err))
}

func TestSplitSeq(t *testing.T) {
	// k = 3: 6 k-mers over 8 bases.
	u := unitig.New[coverage.NoData]("u", 6, false)
	u.Seq = "ACGTACGG"
	u.Coverage.Cov.Cover(2, 4)
	u.Coverage.Cov.Cover(2, 4)
	pieces := u.Split()
	require.Len(t, pieces, 3)
	assert.Equal(t, "ACGT", pieces[0].Unitig.Seq)
	assert.Equal(t, "GTAC", pieces[1].Unitig.Seq)
	assert.Equal(t, "ACGG", pieces[2].Unitig.Seq)
}

func TestMerge(t *testing.T) {
	union := func(a, b tags) tags {
		return tags{colors: append(append([]string{}, a.colors...), b.colors...)}
	}
	// Sizes on both sides of SizeLimit, for each input and for the result.
	for _, sizes := range [][2]int{{5, 7}, {20, 20}, {10, 40}, {40, 3}} {
		a := unitig.New[tags]("a", sizes[0], false)
		a.Coverage.SetData(tags{colors: []string{"red"}})
		a.Coverage.Cov.Cover(0, 2)
		a.Coverage.Cov.Cover(1, 2)
		b := unitig.New[tags]("b", sizes[1], false)
		b.Coverage.SetData(tags{colors: []string{"blue"}})
		b.Coverage.Cov.Cover(sizes[1]-1, sizes[1])
		want := append(a.Coverage.Cov.Unpack(nil), b.Coverage.Cov.Unpack(nil)...)

		require.NoError(t, a.Merge(b, union))
		a.Coverage.Cov.Check("merged")
		assert.Equal(t, sizes[0]+sizes[1], a.Len())
		assert.False(t, a.Coverage.Cov.IsFull())
		assert.Equal(t, want, a.Coverage.Cov.Unpack(nil))
		assert.Equal(t, []string{"red", "blue"}, a.Coverage.Data().colors)
		// b is untouched.
		assert.Equal(t, sizes[1], b.Len())
		assert.Equal(t, []string{"blue"}, b.Coverage.Data().colors)
	}

	for _, sizes := range [][2]int{{3, 4}, {30, 30}} {
		a := unitig.New[int]("a", sizes[0], true)
		a.Coverage.SetData(1)
		b := unitig.New[int]("b", sizes[1], true)
		b.Coverage.SetData(2)
		require.NoError(t, a.Merge(b, nil))
		assert.True(t, a.Coverage.Cov.IsFull())
		assert.Equal(t, sizes[0]+sizes[1], a.Len())
		assert.Equal(t, 1, a.Coverage.Data())

		// Full followed by partial coverage leaves full mode.
		c := unitig.New[int]("c", 2, false)
		require.NoError(t, a.Merge(c, nil))
		assert.False(t, a.Coverage.Cov.IsFull())
		assert.Equal(t, uint8(coverage.CovFull), a.Coverage.Cov.CovAt(0))
		assert.Equal(t, uint8(0), a.Coverage.Cov.CovAt(a.Len()-1))
		a.Coverage.Cov.Check("full+partial")
	}
}

func TestMergeSeq(t *testing.T) {
	// k = 3.
	a := unitig.New[coverage.NoData]("a", 2, false)
	a.Seq = "ACGT"
	b := unitig.New[coverage.NoData]("b", 3, false)
	b.Seq = "GTCCA"
	require.NoError(t, a.Merge(b, nil))
	assert.Equal(t, "ACGTCCA", a.Seq)
	assert.Equal(t, 5, a.Len())

	c := unitig.New[coverage.NoData]("c", 1, false)
	c.Seq = "GGGG"
	err := a.Merge(c, nil)
	assert.True(t, errors.Is(errors.Invalid, err))
	assert.Equal(t, 5, a.Len())
}
