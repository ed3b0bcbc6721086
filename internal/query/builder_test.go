package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOmitsUnsetFilters(t *testing.T) {
	f := NewFilterState()
	require.NoError(t, f.Set(KeyType, "Expense"))
	require.NoError(t, f.Set(KeyCategory, ""))
	require.NoError(t, f.Set(KeyPerson, "Maria"))

	params := Build(f, SortState{})

	assert.Equal(t, []Param{
		{Key: "type", Value: "Expense"},
		{Key: "person", Value: "Maria"},
	}, params)
}

func TestBuildCanonicalOrder(t *testing.T) {
	// Insertion order must not leak into the output.
	f := NewFilterState()
	require.NoError(t, f.Set(KeyAmountMax, "100"))
	require.NoError(t, f.Set(KeyDateFrom, "2024-01-01"))
	require.NoError(t, f.Set(KeyDescription, "rent"))
	require.NoError(t, f.Set(KeyAmountMin, "-50"))

	got := Encode(Build(f, SortState{Field: "amount", Direction: Desc}))

	assert.Equal(t,
		"dateFrom=2024-01-01&description=rent&amountMin=-50&amountMax=100&sort_by=amount&sort_direction=desc",
		got)
}

func TestBuildDeterminism(t *testing.T) {
	f := NewFilterState()
	require.NoError(t, f.Set(KeyType, "Income"))
	require.NoError(t, f.Set(KeyDateTo, "2024-06-30"))
	s := SortState{Field: "date", Direction: Asc}

	first := Encode(Build(f, s))
	second := Encode(Build(f.Clone(), s))

	assert.Equal(t, first, second)
}

func TestBuildSortOnlyWithField(t *testing.T) {
	params := Build(NewFilterState(), SortState{Direction: Desc})
	assert.Empty(t, params, "direction without a field must emit nothing")

	params = Build(NewFilterState(), SortState{Field: "amount"})
	assert.Equal(t, []Param{
		{Key: "sort_by", Value: "amount"},
		{Key: "sort_direction", Value: "asc"},
	}, params, "missing direction defaults to ascending")
}

func TestSetRejectsUnknownKey(t *testing.T) {
	f := NewFilterState()
	assert.Error(t, f.Set("merchant", "ACME"))
}

func TestToggle(t *testing.T) {
	var s SortState

	s = s.Toggle("amount")
	assert.Equal(t, SortState{Field: "amount", Direction: Asc}, s)

	s = s.Toggle("amount")
	assert.Equal(t, SortState{Field: "amount", Direction: Desc}, s)

	s = s.Toggle("amount")
	assert.Equal(t, SortState{Field: "amount", Direction: Asc}, s)

	// Selecting a different field always resets to ascending.
	s = s.Toggle("amount")
	s = s.Toggle("date")
	assert.Equal(t, SortState{Field: "date", Direction: Asc}, s)
}

func TestEncodeEscapes(t *testing.T) {
	f := NewFilterState()
	require.NoError(t, f.Set(KeyDescription, "coffee & cake"))

	assert.Equal(t, "description=coffee+%26+cake", Encode(Build(f, SortState{})))
}
