package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/yumosx/looplist/internal/tui/styles"
)

// row is the on-screen handle for one list item. Its size is the height of
// its last render, in terminal lines.
type row struct {
	id       uuid.UUID
	template string
	swatch   int

	index  int
	lines  int
	width  int
	offset float64
	view   string
}

func newRow(template string, swatch int) *row {
	return &row{id: uuid.New(), template: template, swatch: swatch}
}

func (r *row) Size() float64            { return float64(lipgloss.Height(r.view)) }
func (r *row) SetOffset(offset float64) { r.offset = offset }

func (r *row) bind(index, lines, width int) {
	r.index = index
	r.lines = max(lines, 1)
	r.width = width
	r.render()
}

func (r *row) resize(lines int) {
	r.lines = max(lines, 1)
	r.render()
}

func (r *row) render() {
	t := styles.CurrentTheme()
	head := fmt.Sprintf("%s %s %s",
		t.S().Title.Render(fmt.Sprintf("#%d", r.index)),
		t.S().Muted.Render(r.template),
		t.S().Muted.Render(r.id.String()[:8]),
	)
	body := make([]string, 0, r.lines)
	body = append(body, head)
	for i := 1; i < r.lines; i++ {
		body = append(body, strings.Repeat("·", i*2))
	}
	r.view = t.Row(r.swatch, r.index, r.width, r.lines).Render(strings.Join(body, "\n"))
}
