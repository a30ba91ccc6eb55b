package types

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowAccessors(t *testing.T) {
	row := Row{"Branch": "Centro", "Capital": 12.5}

	assert.Equal(t, "Centro", row.String("Branch"))
	assert.Equal(t, "", row.String("Capital"))
	assert.Equal(t, "", row.String("Missing"))
	assert.Equal(t, 12.5, row.Number("Capital"))
	assert.Equal(t, 0.0, row.Number("Branch"))
}

func TestFilterState_Clone(t *testing.T) {
	f := NewFilterState([]string{"A", "B"})
	f.Manager = "Ana"

	c := f.Clone()
	c.ActiveIndicators["A"] = false

	assert.True(t, f.IsActive("A"))
	assert.False(t, c.IsActive("A"))
	assert.Equal(t, "Ana", c.Manager)

	var zero FilterState
	assert.Nil(t, zero.Clone().ActiveIndicators)
}

func TestSortState_SortIndicator(t *testing.T) {
	name, ok := SortState{Column: IndicatorSortKey("Capital Social")}.SortIndicator()
	assert.True(t, ok)
	assert.Equal(t, "Capital Social", name)

	_, ok = SortState{Column: SortColumnBranch}.SortIndicator()
	assert.False(t, ok)

	assert.Equal(t, SortState{Direction: Asc}, DefaultSort())
}

func TestErrors(t *testing.T) {
	var err error = &SchemaError{Source: "jan.csv", Missing: []string{"A", "B"}}
	assert.EqualError(t, err, "jan.csv: missing required columns: A, B")
	assert.ErrorIs(t, fmt.Errorf("upload: %w", err), ErrSchema)

	err = &EmptyDataError{}
	assert.EqualError(t, err, "file contains no valid data rows")
	assert.ErrorIs(t, err, ErrEmptyData)

	err = &ReadError{Source: "fev.csv", Err: io.ErrUnexpectedEOF}
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "fev.csv", readErr.Source)
}
