package vectorstore

import "math"

// normTolerance bounds how far a vector's L2 norm may drift from 1 before
// Add rejects it as not unit-normalized. Embedding providers return
// float32 and normalization happens upstream, so this is generous.
const normTolerance = 1e-3

// Store holds parallel content/context vector arrays and a parallel
// metadata array. Indices are stable for the lifetime of a snapshot:
// Add only appends, nothing is ever reordered or removed in place.
type Store struct {
	dimension int

	content [][]float32
	context [][]float32
	meta    []Meta
}

// New creates an empty Store for vectors of the given dimension.
func New(dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, ErrZeroDimension
	}
	return &Store{dimension: dimension}, nil
}

// Dimension returns the vector width this store was created with.
func (s *Store) Dimension() int { return s.dimension }

// Add appends one session's dual vectors and metadata. A zero vector is
// accepted as the sentinel for "embedding provider failed for this
// session"; any other vector must be unit-normalized within tolerance.
func (s *Store) Add(contentVec, contextVec []float32, meta Meta) error {
	if err := s.validate(contentVec); err != nil {
		return err
	}
	if err := s.validate(contextVec); err != nil {
		return err
	}
	s.content = append(s.content, contentVec)
	s.context = append(s.context, contextVec)
	s.meta = append(s.meta, meta)
	return nil
}

func (s *Store) validate(vec []float32) error {
	if len(vec) != s.dimension {
		return &DimensionError{Want: s.dimension, Got: len(vec)}
	}
	if isZeroVector(vec) {
		return nil
	}
	if !isUnitNorm(vec) {
		return ErrNotUnitNorm
	}
	return nil
}

func isZeroVector(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func isUnitNorm(vec []float32) bool {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	return math.Abs(math.Sqrt(sumSq)-1) <= normTolerance
}

// Len returns the number of sessions stored.
func (s *Store) Len() int { return len(s.meta) }

// Meta returns the metadata for session i.
func (s *Store) Meta(i int) (Meta, error) {
	if i < 0 || i >= len(s.meta) {
		return Meta{}, ErrIndexOutOfRange
	}
	return s.meta[i], nil
}

// Content returns the content vector for session i.
func (s *Store) Content(i int) ([]float32, error) {
	if i < 0 || i >= len(s.content) {
		return nil, ErrIndexOutOfRange
	}
	return s.content[i], nil
}

// Context returns the context vector for session i.
func (s *Store) Context(i int) ([]float32, error) {
	if i < 0 || i >= len(s.context) {
		return nil, ErrIndexOutOfRange
	}
	return s.context[i], nil
}
