package viewport

import "github.com/yumosx/looplist/internal/recycle"

// Item is a visual item handle owned by the host. The engine only measures it
// and tells it where it starts; drawing it there is up to the host.
type Item interface {
	// Size is the measured extent along the scroll axis.
	Size() float64
	// SetOffset receives the item's start, measured from the viewport's
	// leading edge along the arrangement direction.
	SetOffset(offset float64)
}

// ItemFactory returns the item to show at index, usually built with
// Controller.NewListItem, or nil when there is no such item. A nil result
// stops the list from asking past that index until the item count changes.
// It must not call Tick.
type ItemFactory func(c *Controller, index int) *ListItem

// SnapFunc receives snap notifications.
type SnapFunc func(c *Controller, item *ListItem)

// ListItem is a member of the live window.
type ListItem struct {
	entry *recycle.Entry[Item]

	index   int
	size    float64
	offset  float64
	created uint64
}

// Index returns the item index the handle currently shows.
func (li *ListItem) Index() int { return li.index }

// Handle returns the host handle.
func (li *ListItem) Handle() Item { return li.entry.Value }

// ID returns the pool-assigned handle id.
func (li *ListItem) ID() int { return li.entry.ID }

// Template returns the name of the template the handle was built from.
func (li *ListItem) Template() string { return li.entry.Template }

// Size returns the size measured when the item was placed or last reported
// as changed.
func (li *ListItem) Size() float64 { return li.size }

// Padding returns the gap laid out after the item.
func (li *ListItem) Padding() float64 { return li.entry.Padding }

// SizeWithPadding is the extent the item occupies in the layout.
func (li *ListItem) SizeWithPadding() float64 { return li.size + li.entry.Padding }

// Offset returns the item's start in content coordinates.
func (li *ListItem) Offset() float64 { return li.offset }

// end is the item's trailing visual edge.
func (li *ListItem) end() float64 { return li.offset + li.size }

// next is where the following item starts.
func (li *ListItem) next() float64 { return li.offset + li.size + li.entry.Padding }

func (li *ListItem) snapPoint() float64 { return li.offset + li.entry.SnapPivot*li.size }
