package viewport

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/yumosx/looplist/internal/position"
)

var (
	ErrInvalidConfig   = errors.New("invalid list configuration")
	ErrInvalidDistance = errors.New("recycle distance must exceed spawn distance")
	ErrMissingFactory  = errors.New("list has no item factory")
	ErrMissingRegistry = errors.New("list has no template registry")
	ErrLoopGuard       = errors.New("list update loop did not settle")
)

// Edges of the live window, in arrangement order.
const (
	EdgeStart = 0
	EdgeEnd   = 1
)

// Distances holds one value per edge, indexed by EdgeStart and EdgeEnd. In
// JSON it is an object so a config file can override a single edge.
type Distances [2]float64

type jsonDistances struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

func (d Distances) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDistances{Start: &d[EdgeStart], End: &d[EdgeEnd]})
}

// UnmarshalJSON keeps the current value of an edge the document leaves out.
func (d *Distances) UnmarshalJSON(data []byte) error {
	var v jsonDistances
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Start != nil {
		d[EdgeStart] = *v.Start
	}
	if v.End != nil {
		d[EdgeEnd] = *v.End
	}
	return nil
}

func (Distances) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("start", &jsonschema.Schema{Type: "number", Description: "Distance at the start edge"})
	props.Set("end", &jsonschema.Schema{Type: "number", Description: "Distance at the end edge"})
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

// Config holds the options recognized by a Controller.
type Config struct {
	// TotalItemCount is the number of items. Negative means unbounded, which
	// disables the position index.
	TotalItemCount int `json:"total_item_count"`
	// DefaultItemSize is assumed for items that were never measured.
	DefaultItemSize float64 `json:"default_item_size"`
	// SegmentCapacity is the number of items per position segment.
	SegmentCapacity int `json:"segment_capacity"`

	// DistanceForNew is how close, per edge, the live window's boundary may
	// get to the viewport before another item is requested.
	DistanceForNew Distances `json:"distance_for_new"`
	// DistanceForRecycle is how far, per edge, an item may drift past the
	// viewport before it is recycled. Must exceed DistanceForNew, and the gap
	// between the two should stay larger than any template padding.
	DistanceForRecycle Distances `json:"distance_for_recycle"`

	Direction    Direction `json:"direction"`
	ViewportSize float64   `json:"viewport_size"`

	// Inertia keeps the list moving after a drag ends, slowing down by
	// DecelerationRate per second.
	Inertia          bool    `json:"inertia"`
	DecelerationRate float64 `json:"deceleration_rate"`

	SnapEnabled bool `json:"snap_enabled"`
	// SmoothDampRate is the approximate time, in seconds, a snap takes to
	// settle.
	SmoothDampRate        float64 `json:"smooth_damp_rate"`
	SnapFinishThreshold   float64 `json:"snap_finish_threshold"`
	SnapVelocityThreshold float64 `json:"snap_velocity_threshold"`
	// ViewportSnapPivot is the point of the viewport, in [0, 1], that items
	// snap to.
	ViewportSnapPivot float64 `json:"viewport_snap_pivot"`
	// ItemSnapPivot is used for items that are not live when they become a
	// snap target.
	ItemSnapPivot float64 `json:"item_snap_pivot"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		TotalItemCount:        0,
		DefaultItemSize:       20,
		SegmentCapacity:       position.DefaultSegmentCapacity,
		DistanceForNew:        Distances{200, 200},
		DistanceForRecycle:    Distances{300, 300},
		Direction:             TopToBottom,
		Inertia:               true,
		DecelerationRate:      0.135,
		SmoothDampRate:        0.3,
		SnapFinishThreshold:   0.1,
		SnapVelocityThreshold: 145,
		ViewportSnapPivot:     0.5,
		ItemSnapPivot:         0.5,
	}
}

// Bounded reports whether the list has a known item count.
func (c Config) Bounded() bool { return c.TotalItemCount >= 0 }

// Validate reports the first configuration error found.
func (c Config) Validate() error {
	for edge := range 2 {
		if c.DistanceForRecycle[edge] <= c.DistanceForNew[edge] {
			return fmt.Errorf("%w: edge %d has recycle %v, new %v",
				ErrInvalidDistance, edge, c.DistanceForRecycle[edge], c.DistanceForNew[edge])
		}
	}
	switch {
	case c.DefaultItemSize < 0:
		return fmt.Errorf("%w: negative default item size %v", ErrInvalidConfig, c.DefaultItemSize)
	case c.SegmentCapacity < 0:
		return fmt.Errorf("%w: negative segment capacity %d", ErrInvalidConfig, c.SegmentCapacity)
	case c.ViewportSize < 0:
		return fmt.Errorf("%w: negative viewport size %v", ErrInvalidConfig, c.ViewportSize)
	case !c.Direction.Valid():
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidConfig, c.Direction)
	case c.DecelerationRate < 0 || c.DecelerationRate >= 1:
		return fmt.Errorf("%w: deceleration rate %v outside [0, 1)", ErrInvalidConfig, c.DecelerationRate)
	case c.SmoothDampRate <= 0:
		return fmt.Errorf("%w: smooth damp rate must be positive", ErrInvalidConfig)
	case c.SnapFinishThreshold <= 0:
		return fmt.Errorf("%w: snap finish threshold must be positive", ErrInvalidConfig)
	case c.ViewportSnapPivot < 0 || c.ViewportSnapPivot > 1:
		return fmt.Errorf("%w: viewport snap pivot %v outside [0, 1]", ErrInvalidConfig, c.ViewportSnapPivot)
	case c.ItemSnapPivot < 0 || c.ItemSnapPivot > 1:
		return fmt.Errorf("%w: item snap pivot %v outside [0, 1]", ErrInvalidConfig, c.ItemSnapPivot)
	}
	return nil
}
