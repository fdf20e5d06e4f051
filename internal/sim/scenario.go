package sim

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yumosx/looplist/internal/recycle"
	"github.com/yumosx/looplist/internal/viewport"
)

// MaxSettleFrames bounds how long a step may wait for motion to stop.
const MaxSettleFrames = 3600

var ErrInvalidStep = errors.New("invalid step")

type StepKind string

const (
	// StepScroll moves the list by Value and runs one frame.
	StepScroll StepKind = "scroll"
	// StepDrag holds the list, moves it by Value over one frame, and lets go.
	StepDrag StepKind = "drag"
	// StepFling releases the list with velocity Value and waits for it to
	// come to rest.
	StepFling StepKind = "fling"
	// StepJump moves to item Value.
	StepJump StepKind = "jump"
	// StepSnap snaps to item Value and waits for the snap to finish.
	StepSnap StepKind = "snap"
	// StepResize doubles the size of live item Value.
	StepResize StepKind = "resize"
	// StepCount changes the item count to Value.
	StepCount StepKind = "count"
	// StepWait runs Value frames.
	StepWait StepKind = "wait"
)

var stepKinds = []StepKind{StepScroll, StepDrag, StepFling, StepJump, StepSnap, StepResize, StepCount, StepWait}

type Step struct {
	Kind  StepKind
	Value float64
}

func (s Step) String() string {
	return fmt.Sprintf("%s:%g", s.Kind, s.Value)
}

// ParseStep parses "kind:value", for example "fling:-3000" or "jump:500".
func ParseStep(s string) (Step, error) {
	kind, value, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Step{}, fmt.Errorf("%w: %q is not kind:value", ErrInvalidStep, s)
	}
	step := Step{Kind: StepKind(strings.ToLower(kind))}
	if !slices.Contains(stepKinds, step.Kind) {
		return Step{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, kind)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Step{}, fmt.Errorf("%w: %q: %v", ErrInvalidStep, s, err)
	}
	step.Value = v
	return step, nil
}

// Report is the state of the list after a step.
type Report struct {
	Step   string                   `json:"step"`
	Frames int                      `json:"frames"`
	Scroll float64                  `json:"scroll"`
	First  int                      `json:"first"`
	Last   int                      `json:"last"`
	Shown  int                      `json:"shown"`
	Snap   string                   `json:"snap"`
	Pools  map[string]recycle.Stats `json:"pools"`
}

// Run applies steps in order and reports the list after each one.
func (h *Host) Run(ctx context.Context, steps []Step) ([]Report, error) {
	reports := make([]Report, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		frames, err := h.apply(step)
		if err != nil {
			return reports, fmt.Errorf("step %s: %w", step, err)
		}
		reports = append(reports, h.report(step, frames))
	}
	return reports, nil
}

func (h *Host) apply(step Step) (int, error) {
	c := h.ctrl
	switch step.Kind {
	case StepScroll:
		c.ScrollBy(step.Value)
		return 1, h.Tick()
	case StepDrag:
		c.BeginDrag()
		c.Drag(step.Value)
		if err := h.Tick(); err != nil {
			return 1, err
		}
		c.EndDrag(0)
		return 2, h.Tick()
	case StepFling:
		c.EndDrag(step.Value)
		return h.settle()
	case StepJump:
		c.MoveToItem(int(step.Value), 0)
		return 1, h.Tick()
	case StepSnap:
		if !c.SetSnapTarget(int(step.Value)) {
			return 0, fmt.Errorf("%w: item %d cannot be snapped to", ErrInvalidStep, int(step.Value))
		}
		return h.settle()
	case StepResize:
		index := int(step.Value)
		li := c.ShownItemByIndex(index)
		if li == nil {
			return 0, fmt.Errorf("%w: item %d is not shown", ErrInvalidStep, index)
		}
		h.Resize(index, li.Size()*2)
		return 1, h.Tick()
	case StepCount:
		c.SetListItemCount(int(step.Value), false)
		return 1, h.Tick()
	case StepWait:
		n := int(step.Value)
		for i := range n {
			if err := h.Tick(); err != nil {
				return i + 1, err
			}
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, step.Kind)
}

// settle ticks until the list stops moving and any snap has finished.
func (h *Host) settle() (int, error) {
	for i := range MaxSettleFrames {
		if err := h.Tick(); err != nil {
			return i + 1, err
		}
		if h.idle() {
			return i + 1, nil
		}
	}
	return MaxSettleFrames, nil
}

func (h *Host) idle() bool {
	switch h.ctrl.SnapStatus() {
	case viewport.SnapTargetSet, viewport.SnapMoving:
		return false
	}
	return h.ctrl.Velocity() == 0
}

func (h *Host) report(step Step, frames int) Report {
	r := Report{
		Step:   step.String(),
		Frames: frames,
		Scroll: h.ctrl.Scroll(),
		First:  -1,
		Last:   -1,
		Shown:  h.ctrl.ShownItemCount(),
		Snap:   h.ctrl.SnapStatus().String(),
		Pools:  h.registry.Stats(),
	}
	if items := h.ctrl.ShownItems(); len(items) > 0 {
		r.First = items[0].Index()
		r.Last = items[len(items)-1].Index()
	}
	return r
}
