package sim

import (
	"log/slog"
	"time"

	"github.com/yumosx/looplist/internal/config"
	"github.com/yumosx/looplist/internal/recycle"
	"github.com/yumosx/looplist/internal/viewport"
)

// Host owns one list engine and the rows it shows.
type Host struct {
	ctrl      *viewport.Controller
	registry  *recycle.Registry[viewport.Item]
	templates []string
	sizer     Sizer
	frame     time.Duration
}

// NewHost builds an engine from cfg. Row sizes come from sizer; with a zero
// sizer every row has the configured default size.
func NewHost(cfg *config.Config, sizer Sizer, opts ...viewport.Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sizer.Max == 0 && sizer.Min == 0 {
		sizer.Min, sizer.Max = cfg.List.DefaultItemSize, cfg.List.DefaultItemSize
	}
	h := &Host{
		templates: cfg.TemplateNames(),
		sizer:     sizer,
		frame:     time.Second / time.Duration(max(cfg.Options.FrameRate, 1)),
	}

	templates := make([]recycle.Template[viewport.Item], 0, len(h.templates))
	for _, name := range h.templates {
		templates = append(templates, Template(name, cfg.Templates[name]))
	}
	registry, err := recycle.NewRegistry(templates...)
	if err != nil {
		return nil, err
	}
	h.registry = registry

	h.ctrl, err = viewport.New(cfg.List, h.item, registry, opts...)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Template builds the pool template for simulated rows.
func Template(name string, tc config.TemplateConfig) recycle.Template[viewport.Item] {
	return recycle.Template[viewport.Item]{
		Name:      name,
		New:       func() viewport.Item { return newRow(name) },
		Padding:   tc.Padding,
		SnapPivot: tc.Pivot(),
		Activate:  func(it viewport.Item) { it.(*Row).active = true },
		Park:      func(it viewport.Item) { it.(*Row).active = false },
		Destroy:   func(it viewport.Item) { it.(*Row).destroyed = true },
	}
}

func (h *Host) templateFor(index int) string {
	n := len(h.templates)
	return h.templates[((index%n)+n)%n]
}

func (h *Host) item(c *viewport.Controller, index int) *viewport.ListItem {
	li, err := c.NewListItem(h.templateFor(index))
	if err != nil {
		slog.Error("Failed to build row", "index", index, "error", err)
		return nil
	}
	li.Handle().(*Row).bind(index, h.sizer.Size(index))
	return li
}

// Tick advances the engine by one frame.
func (h *Host) Tick() error {
	return h.ctrl.Tick(h.frame)
}

// Resize changes the size of a live row and reports it to the engine.
func (h *Host) Resize(index int, size float64) bool {
	li := h.ctrl.ShownItemByIndex(index)
	if li == nil {
		return false
	}
	li.Handle().(*Row).Resize(size)
	h.ctrl.OnItemSizeChanged(index)
	return true
}

func (h *Host) Controller() *viewport.Controller { return h.ctrl }
func (h *Host) Frame() time.Duration             { return h.frame }

// Rows returns the live rows in index order.
func (h *Host) Rows() []*Row {
	items := h.ctrl.ShownItems()
	rows := make([]*Row, 0, len(items))
	for _, li := range items {
		rows = append(rows, li.Handle().(*Row))
	}
	return rows
}
