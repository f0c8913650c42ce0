package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// maxMarkdownCache bounds the rendered markdown kept between frames.
const maxMarkdownCache = 64

// markdownRenderer renders markdown cells for the detail pane. Rendering is
// slow compared to a frame, so output is cached per width and source.
type markdownRenderer struct {
	enabled bool
	style   string

	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newMarkdownRenderer(enabled, light bool) *markdownRenderer {
	style := "dark"
	if light {
		style = "light"
	}
	return &markdownRenderer{enabled: enabled, style: style, cache: make(map[string]string)}
}

// render returns src rendered for width columns. Disabled rendering, empty
// input and renderer failures return src unchanged.
func (r *markdownRenderer) render(src string, width int) string {
	if !r.enabled || strings.TrimSpace(src) == "" || width <= 0 {
		return src
	}
	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return src
		}
		r.renderer, r.width = tr, width
		clear(r.cache)
	}
	if out, ok := r.cache[src]; ok {
		return out
	}
	out, err := r.renderer.Render(src)
	if err != nil {
		return src
	}
	out = strings.Trim(out, "\n")
	if len(r.cache) >= maxMarkdownCache {
		clear(r.cache)
	}
	r.cache[src] = out
	return out
}
