// Package position tracks the size and cumulative offset of every item in a
// virtualized list without repositioning all of them on each edit.
//
// Items are grouped into fixed-capacity segments. A size edit only dirties the
// segment that owns the item, and offsets are rebuilt lazily right before a
// query needs them.
package position

import "slices"

// DefaultSegmentCapacity is the number of items per segment when none is
// configured.
const DefaultSegmentCapacity = 100

// Index is an ordered run of segments covering [0, ItemCount()).
type Index struct {
	capacity    int
	defaultSize float64

	segments  []Segment
	count     int
	dirtyFrom int
	total     float64
}

// NewIndex returns an empty index. Non-positive capacities fall back to
// DefaultSegmentCapacity.
func NewIndex(capacity int, defaultSize float64) *Index {
	if capacity <= 0 {
		capacity = DefaultSegmentCapacity
	}
	return &Index{
		capacity:    capacity,
		defaultSize: defaultSize,
	}
}

// SetMaxItemCount resizes the index to n items, creating or truncating
// segments as needed. Sizes of items that survive the resize are kept;
// items beyond the previous count start at the default size.
func (p *Index) SetMaxItemCount(n int) {
	n = max(n, 0)
	needed := (n + p.capacity - 1) / p.capacity
	if needed < len(p.segments) {
		p.segments = slices.Delete(p.segments, needed, len(p.segments))
	}
	for i := range p.segments {
		p.segments[i].SetItemCount(min(n-i*p.capacity, p.capacity))
	}
	for i := len(p.segments); i < needed; i++ {
		p.segments = append(p.segments, newSegment(i, p.capacity, min(n-i*p.capacity, p.capacity), p.defaultSize))
	}

	p.count = n
	p.dirtyFrom = 0
	p.total = 0
	for i := range p.segments {
		p.total += p.segments[i].total
	}
}

// SetItemSize records the size of the item at index. Indices outside the
// current range are ignored.
func (p *Index) SetItemSize(index int, size float64) {
	if index < 0 || index >= p.count {
		return
	}
	segIndex, local := index/p.capacity, index%p.capacity
	delta := p.segments[segIndex].SetItemSize(local, size)
	if delta == 0 {
		return
	}
	if segIndex < p.dirtyFrom {
		p.dirtyFrom = segIndex
	}
	p.total += delta
}

// ItemSize returns the recorded size of the item at index, or 0 when the
// index is out of range.
func (p *Index) ItemSize(index int) float64 {
	if index < 0 || index >= p.count {
		return 0
	}
	return p.segments[index/p.capacity].sizes[index%p.capacity]
}

// ItemOffset returns the start offset of the item at index. Indices past the
// end report the end of the list. Any pending recompute is finished first.
func (p *Index) ItemOffset(index int) float64 {
	p.Update(true)
	if index <= 0 || p.count == 0 {
		return 0
	}
	if index >= p.count {
		return p.segments[len(p.segments)-1].end
	}
	seg := &p.segments[index/p.capacity]
	return seg.start + seg.offsets[index%p.capacity]
}

// FindIndexAndOffsetAtPosition returns the item whose [offset, offset+size)
// range contains pos, together with that item's start offset.
func (p *Index) FindIndexAndOffsetAtPosition(pos float64) (int, float64, bool) {
	p.Update(true)
	if len(p.segments) == 0 {
		return 0, 0, false
	}

	hit := -1
	for low, high := 0, len(p.segments)-1; low <= high && hit < 0; {
		mid := (low + high) / 2
		seg := &p.segments[mid]
		switch {
		case pos < seg.start:
			high = mid - 1
		case pos >= seg.end:
			low = mid + 1
		default:
			hit = mid
		}
	}
	if hit < 0 {
		return 0, 0, false
	}

	seg := &p.segments[hit]
	local := seg.FindLocalIndexAtOffset(pos - seg.start)
	if local < 0 {
		return 0, 0, false
	}
	return hit*p.capacity + local, seg.start + seg.offsets[local], true
}

// Update recomputes segment boundaries starting at the lowest dirty segment.
// When full is false it handles at most one segment, bounding the cost of a
// call to O(capacity); callers that need an authoritative answer pass true.
func (p *Index) Update(full bool) {
	for p.dirtyFrom < len(p.segments) {
		i := p.dirtyFrom
		seg := &p.segments[i]
		seg.RecomputeOffsets()
		if i == 0 {
			seg.start = 0
		} else {
			seg.start = p.segments[i-1].end
		}
		seg.end = seg.start + seg.span()
		p.dirtyFrom++
		if !full {
			return
		}
	}
}

// Dirty reports whether any segment boundary is stale.
func (p *Index) Dirty() bool { return p.dirtyFrom < len(p.segments) }

// DirtyFrom returns the lowest segment whose boundaries are stale.
func (p *Index) DirtyFrom() int { return p.dirtyFrom }

// Segment returns the segment at i for inspection.
func (p *Index) Segment(i int) *Segment { return &p.segments[i] }

func (p *Index) SegmentCount() int    { return len(p.segments) }
func (p *Index) Capacity() int        { return p.capacity }
func (p *Index) DefaultSize() float64 { return p.defaultSize }
func (p *Index) ItemCount() int       { return p.count }
func (p *Index) TotalSize() float64   { return p.total }
