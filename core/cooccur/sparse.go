// Package cooccur slides fixed-size windows over tokenized documents and
// tallies (word, context-word) co-occurrence counts into a sparse
// word-by-context matrix.
package cooccur

import "sort"

// SparseVector is one matrix row with potentially many zero entries.
// Indices are kept sorted; each index pairs with the value at the same
// position in Values.
type SparseVector struct {
	Len     int
	Indices []int
	Values  []float64
}

// Get reads the entry at index i.
func (s *SparseVector) Get(i int) float64 {
	idx := sort.SearchInts(s.Indices, i)
	if idx == len(s.Indices) || s.Indices[idx] != i {
		return 0
	}
	return s.Values[idx]
}

// Set writes the entry at index i.
func (s *SparseVector) Set(i int, val float64) {
	idx := sort.SearchInts(s.Indices, i)
	switch {
	case idx == len(s.Indices):
		s.Indices = append(s.Indices, i)
		s.Values = append(s.Values, val)
	case s.Indices[idx] != i:
		s.Indices = append(s.Indices, 0)
		s.Values = append(s.Values, 0)
		copy(s.Indices[idx+1:], s.Indices[idx:])
		copy(s.Values[idx+1:], s.Values[idx:])
		s.Indices[idx] = i
		s.Values[idx] = val
	default:
		s.Values[idx] = val
	}
}

// Add accumulates delta into the entry at index i.
func (s *SparseVector) Add(i int, delta float64) {
	idx := sort.SearchInts(s.Indices, i)
	if idx < len(s.Indices) && s.Indices[idx] == i {
		s.Values[idx] += delta
		return
	}
	s.Set(i, delta)
}

// Sum returns the total of all entries.
func (s *SparseVector) Sum() float64 {
	var total float64
	for _, v := range s.Values {
		total += v
	}
	return total
}

// SparseMatrix stores word co-occurrence counts row by row. Row i holds the
// context counts for word ID i.
type SparseMatrix struct {
	Rows []*SparseVector
}

// NewSparseMatrix creates a zero matrix.
func NewSparseMatrix(rows, cols int) *SparseMatrix {
	m := &SparseMatrix{Rows: make([]*SparseVector, rows)}
	for i := range m.Rows {
		m.Rows[i] = &SparseVector{Len: cols}
	}
	return m
}

// Dims returns the matrix dimensions.
func (m *SparseMatrix) Dims() (rows, cols int) {
	rows = len(m.Rows)
	if rows > 0 {
		cols = m.Rows[0].Len
	}
	return rows, cols
}

// Get reads an entry.
func (m *SparseMatrix) Get(row, col int) float64 {
	return m.Rows[row].Get(col)
}

// Set writes an entry.
func (m *SparseMatrix) Set(row, col int, val float64) {
	m.Rows[row].Set(col, val)
}

// Add accumulates delta into an entry.
func (m *SparseMatrix) Add(row, col int, delta float64) {
	m.Rows[row].Add(col, delta)
}

// NumEntries returns the number of explicitly stored entries.
func (m *SparseMatrix) NumEntries() int {
	var n int
	for _, row := range m.Rows {
		n += len(row.Indices)
	}
	return n
}

// Total returns the sum of all entries.
func (m *SparseMatrix) Total() float64 {
	var total float64
	for _, row := range m.Rows {
		total += row.Sum()
	}
	return total
}

// Each calls fn for every stored entry.
func (m *SparseMatrix) Each(fn func(row, col int, val float64)) {
	for i, row := range m.Rows {
		for j, col := range row.Indices {
			fn(i, col, row.Values[j])
		}
	}
}
