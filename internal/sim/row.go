// Package sim hosts list engines without a screen: rows are plain structs
// with deterministic sizes, and scripted steps stand in for user input.
package sim

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Row is a simulated item handle.
type Row struct {
	ID       uuid.UUID
	Template string
	Index    int

	size      float64
	offset    float64
	active    bool
	destroyed bool
}

func newRow(template string) *Row {
	return &Row{ID: uuid.New(), Template: template, active: true}
}

func (r *Row) Size() float64            { return r.size }
func (r *Row) SetOffset(offset float64) { r.offset = offset }
func (r *Row) Offset() float64          { return r.offset }
func (r *Row) Active() bool             { return r.active }
func (r *Row) Destroyed() bool          { return r.destroyed }

// Resize changes the row's size; the host must tell the list afterwards.
func (r *Row) Resize(size float64) { r.size = max(size, 0) }

func (r *Row) bind(index int, size float64) {
	r.Index = index
	r.size = size
}

// Sizer gives every index a stable size in [Min, Max].
type Sizer struct {
	Seed     uint64
	Min, Max float64
}

// Size hashes index with the seed, so the same index always measures the
// same and neighbours are uncorrelated.
func (s Sizer) Size(index int) float64 {
	if s.Max <= s.Min {
		return s.Min
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(index))
	h := xxh3.HashSeed(buf[:], s.Seed)
	return s.Min + float64(h%uint64(s.Max-s.Min+1))
}
