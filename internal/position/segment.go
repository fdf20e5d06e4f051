package position

// Segment holds the sizes and local cumulative offsets of up to capacity
// consecutive items. Offsets below dirtyFrom are valid; everything from
// dirtyFrom on is rebuilt lazily by RecomputeOffsets.
type Segment struct {
	sizes   []float64
	offsets []float64

	count       int
	dirtyFrom   int
	total       float64
	defaultSize float64

	start, end float64
	index      int
}

// newSegment returns a segment of count items filled with defaultSize. Its
// offsets are laid out eagerly with the same running sum RecomputeOffsets
// uses, so a fresh segment starts clean.
func newSegment(index, capacity, count int, defaultSize float64) Segment {
	s := Segment{
		sizes:       make([]float64, capacity),
		offsets:     make([]float64, capacity),
		count:       count,
		dirtyFrom:   count,
		defaultSize: defaultSize,
		index:       index,
	}
	for i := range s.sizes {
		s.sizes[i] = defaultSize
		if i > 0 {
			s.offsets[i] = s.offsets[i-1] + defaultSize
		}
	}
	for _, size := range s.sizes[:count] {
		s.total += size
	}
	return s
}

// SetItemSize updates the size of the item at local index i and returns the
// change in the segment's total size.
func (s *Segment) SetItemSize(i int, size float64) float64 {
	old := s.sizes[i]
	if old == size {
		return 0
	}
	s.sizes[i] = size
	if i < s.dirtyFrom {
		s.dirtyFrom = i
	}
	delta := size - old
	s.total += delta
	return delta
}

// SetItemCount resizes the segment to n items. Items added past the
// previous count start at the default size.
func (s *Segment) SetItemCount(n int) {
	if s.count == n {
		return
	}
	for i := s.count; i < n; i++ {
		s.sizes[i] = s.defaultSize
	}
	s.count = n
	if s.dirtyFrom > n {
		s.dirtyFrom = n
	}
	s.total = 0
	for _, size := range s.sizes[:n] {
		s.total += size
	}
}

// RecomputeOffsets rebuilds the stale tail of the local offsets.
func (s *Segment) RecomputeOffsets() {
	if s.dirtyFrom >= s.count {
		return
	}
	from := max(s.dirtyFrom, 1)
	for i := from; i < s.count; i++ {
		s.offsets[i] = s.offsets[i-1] + s.sizes[i-1]
	}
	s.dirtyFrom = s.count
}

// FindLocalIndexAtOffset returns the local index of the item whose
// [offset, offset+size) range contains pos, or -1. Offsets must be clean.
func (s *Segment) FindLocalIndexAtOffset(pos float64) int {
	low, high := 0, s.count-1
	for low <= high {
		mid := (low + high) / 2
		start := s.offsets[mid]
		switch {
		case pos < start:
			high = mid - 1
		case pos >= start+s.sizes[mid]:
			low = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// span is the exact prefix sum of the segment's sizes. Offsets must be clean.
func (s *Segment) span() float64 {
	if s.count == 0 {
		return 0
	}
	return s.offsets[s.count-1] + s.sizes[s.count-1]
}

// ItemSize returns the stored size of local item i.
func (s *Segment) ItemSize(i int) float64 { return s.sizes[i] }

// LocalOffset returns the cached offset of local item i from the segment start.
func (s *Segment) LocalOffset(i int) float64 { return s.offsets[i] }

func (s *Segment) Count() int         { return s.count }
func (s *Segment) DirtyFrom() int     { return s.dirtyFrom }
func (s *Segment) TotalSize() float64 { return s.total }
func (s *Segment) Start() float64     { return s.start }
func (s *Segment) End() float64       { return s.end }
func (s *Segment) Index() int         { return s.index }
