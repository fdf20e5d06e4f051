package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/yumosx/looplist/internal/viewport"
)

const (
	appName              = "looplist"
	defaultDataDirectory = ".looplist"
	defaultTemplate      = "row"
	defaultFrameRate     = 60
	defaultSnapPivot     = 0.5
)

// TemplateConfig describes one kind of list item.
type TemplateConfig struct {
	Padding   float64  `json:"padding,omitempty" jsonschema:"description=Gap laid out after every item built from this template,minimum=0"`
	SnapPivot *float64 `json:"snap_pivot,omitempty" jsonschema:"description=Point inside the item that lines up with the viewport snap pivot,minimum=0,maximum=1,default=0.5"`
}

// Pivot returns the configured snap pivot or the default one.
func (t TemplateConfig) Pivot() float64 {
	if t.SnapPivot == nil {
		return defaultSnapPivot
	}
	return *t.SnapPivot
}

type Options struct {
	Debug         bool   `json:"debug,omitempty" jsonschema:"description=Enable debug logging"`
	DataDirectory string `json:"data_directory,omitempty" jsonschema:"description=Directory for logs and other state,default=.looplist"`
	// Seed drives the sizes of simulated rows.
	Seed      uint64 `json:"seed,omitempty" jsonschema:"description=Seed for simulated row sizes"`
	FrameRate int    `json:"frame_rate,omitempty" jsonschema:"description=Frames per second of the interactive demo,minimum=1,default=60"`
}

// Config is the merged content of every looplist.json found.
type Config struct {
	List      viewport.Config           `json:"list" jsonschema:"description=List engine settings"`
	Templates map[string]TemplateConfig `json:"templates,omitempty" jsonschema:"description=Item templates by name"`
	Options   *Options                  `json:"options,omitempty" jsonschema:"description=General options"`

	workingDir string
	paths      []string
}

func (c *Config) WorkingDir() string { return c.workingDir }

// TemplateNames returns the configured template names in order.
func (c *Config) TemplateNames() []string {
	return slices.Sorted(maps.Keys(c.Templates))
}

// Validate reports the first configuration error found.
func (c *Config) Validate() error {
	if err := c.List.Validate(); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	for _, name := range c.TemplateNames() {
		t := c.Templates[name]
		switch {
		case name == "":
			return fmt.Errorf("%w: template with empty name", viewport.ErrInvalidConfig)
		case t.Padding < 0:
			return fmt.Errorf("%w: template %q has negative padding", viewport.ErrInvalidConfig, name)
		case t.Pivot() < 0 || t.Pivot() > 1:
			return fmt.Errorf("%w: template %q snap pivot %v outside [0, 1]", viewport.ErrInvalidConfig, name, t.Pivot())
		}
	}
	if c.Options != nil && c.Options.FrameRate < 0 {
		return fmt.Errorf("%w: negative frame rate", viewport.ErrInvalidConfig)
	}
	return nil
}
