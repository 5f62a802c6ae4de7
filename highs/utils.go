package highs

import (
	"math"
	"sort"
)

// Inf returns positive infinity, suitable for unbounded bounds.
func Inf() float64 {
	return math.Inf(1)
}

// NegInf returns negative infinity, suitable for unbounded bounds.
func NegInf() float64 {
	return math.Inf(-1)
}

// nonzerosToCSR converts nonzeros to compressed sparse row format with
// numRow+1 start offsets, so empty rows are represented.
// Duplicate (row, col) entries keep the last value.
func nonzerosToCSR(nz []Nonzero, numRow int) (start, index []int, value []float64, err error) {
	sorted := make([]Nonzero, len(nz))
	copy(sorted, nz)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	filtered := make([]Nonzero, 0, len(sorted))
	for _, n := range sorted {
		if n.Row < 0 || n.Col < 0 {
			return nil, nil, nil, newErrorMsg("nonzerosToCSR", "negative row or column index")
		}
		if n.Row >= numRow {
			return nil, nil, nil, newErrorMsg("nonzerosToCSR", "row index out of range")
		}
		if k := len(filtered); k > 0 && filtered[k-1].Row == n.Row && filtered[k-1].Col == n.Col {
			filtered[k-1].Val = n.Val
		} else {
			filtered = append(filtered, n)
		}
	}

	start = make([]int, numRow+1)
	index = make([]int, len(filtered))
	value = make([]float64, len(filtered))
	for i, n := range filtered {
		start[n.Row+1]++
		index[i] = n.Col
		value[i] = n.Val
	}
	for r := 0; r < numRow; r++ {
		start[r+1] += start[r]
	}

	return start, index, value, nil
}

// expandSlice expands an empty slice to length n filled with fillValue.
// Returns an error if the slice has a non-zero length that differs from n.
func expandSlice(n int, slice []float64, fillValue float64) ([]float64, error) {
	if len(slice) == n {
		return slice, nil
	}
	if len(slice) == 0 {
		result := make([]float64, n)
		for i := range result {
			result[i] = fillValue
		}
		return result, nil
	}
	return nil, newErrorMsg("expandSlice", "inconsistent slice length")
}

// maxRowCol finds the maximum row and column indices from a slice of nonzeros.
func maxRowCol(nz []Nonzero) (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1
	for _, n := range nz {
		if n.Row > maxRow {
			maxRow = n.Row
		}
		if n.Col > maxCol {
			maxCol = n.Col
		}
	}
	return maxRow, maxCol
}
