package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powerhouse-labs/powerhouse/common"
	"github.com/powerhouse-labs/powerhouse/field"
)

func testField(t testing.TB, p uint64) field.Field {
	t.Helper()
	f, err := field.New(p)
	require.NoError(t, err)
	return f
}

func TestFromEvaluationsChecksLength(t *testing.T) {
	_, err := FromEvaluations(2, []uint64{1, 2, 3})
	assert.Error(t, err)

	_, err = FromEvaluations(-1, nil)
	assert.Error(t, err)

	m, err := FromEvaluations(0, []uint64{42})
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumVars())
}

func TestBooleanIndexOrdering(t *testing.T) {
	f := testField(t, 101)

	// Bit 0 of the index selects x0, so index 1 is the point (1, 0) and
	// index 2 is (0, 1).
	m, err := FromEvaluations(2, []uint64{10, 11, 12, 13})
	require.NoError(t, err)

	for _, tc := range []struct {
		assignment []uint64
		want       uint64
	}{
		{[]uint64{0, 0}, 10},
		{[]uint64{1, 0}, 11},
		{[]uint64{0, 1}, 12},
		{[]uint64{1, 1}, 13},
	} {
		got, err := m.EvaluateBoolean(f, tc.assignment)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "assignment %v", tc.assignment)
	}
}

func TestEvaluateBooleanRejectsBadInput(t *testing.T) {
	f := testField(t, 101)
	m, err := FromEvaluations(2, []uint64{0, 1, 2, 3})
	require.NoError(t, err)

	_, err = m.EvaluateBoolean(f, []uint64{1})
	assert.Error(t, err)

	_, err = m.EvaluateBoolean(f, []uint64{1, 2})
	assert.Error(t, err)

	// 102 reduces to 1 mod 101, which is a valid Boolean coordinate.
	got, err := m.EvaluateBoolean(f, []uint64{102, 0})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)
}

func TestEvaluateAtArbitraryPoint(t *testing.T) {
	f := testField(t, 101)

	// f(x0, x1) = x0 + 2*x1 over {0,1}^2.
	m, err := FromEvaluations(2, []uint64{0, 1, 2, 3})
	require.NoError(t, err)

	got, err := m.Evaluate(f, []uint64{5, 7})
	require.NoError(t, err)
	assert.Equal(t, uint64(19), got)

	// Boolean points agree with the table.
	got, err = m.Evaluate(f, []uint64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	_, err = m.Evaluate(f, []uint64{5})
	assert.Error(t, err)
}

func TestSumOverHypercube(t *testing.T) {
	f := testField(t, 101)
	m, err := FromEvaluations(3, []uint64{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, uint64(36), m.SumOverHypercube(f))

	// Sums reduce modulo p.
	big, err := FromEvaluations(1, []uint64{100, 100})
	require.NoError(t, err)
	assert.Equal(t, uint64(99), big.SumOverHypercube(f))
}

func TestTableFold(t *testing.T) {
	f := testField(t, 101)

	table := Table{0, 1, 2, 3}
	folded := table.Fold(f, 5)
	// Pair (0,1) folds to 0 + (1-0)*5 = 5, pair (2,3) to 2 + (3-2)*5 = 7.
	assert.Equal(t, Table{5, 7}, folded)

	assert.Equal(t, uint64(19), table.Evaluate(f, []uint64{5, 7}))
}

func TestTablePairSums(t *testing.T) {
	f := testField(t, 101)

	table := Table{1, 2, 3, 4, 5, 6, 7, 8}
	g0, g1 := table.PairSums(f, 0, 4)
	assert.Equal(t, uint64(16), g0)
	assert.Equal(t, uint64(20), g1)

	g0, g1 = table.PairSums(f, 1, 3)
	assert.Equal(t, uint64(8), g0)
	assert.Equal(t, uint64(10), g1)
}

func TestDeepCopyIsIndependent(t *testing.T) {
	table := Table{1, 2, 3, 4}
	cp := table.DeepCopy()
	cp[0] = 99
	assert.Equal(t, uint64(1), table[0])
}

func BenchmarkFolding(b *testing.B) {
	f := testField(b, 1_000_000_007)

	table := make(Table, 1<<20)
	for i := range table {
		table[i] = uint64(i)
	}

	b.ResetTimer()
	common.ProfileTrace(b, false, false, func() {
		for i := 0; i < b.N; i++ {
			layer := table
			for r := uint64(1); len(layer) > 1; r++ {
				layer = layer.Fold(f, r)
			}
		}
	})
}
