package chart

import (
	"bytes"
	"errors"
	"fmt"
	"html"

	"github.com/dustin/go-humanize"
	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

const (
	Width  = 600
	Height = 400

	captionHeight = 50
	labelWidth    = 160
	valueWidth    = 70
	padding       = 10
)

var palette = []string{"red", "green", "blue", "yellow", "cyan", "magenta"}

type svgRenderer struct{}

// NewSVGRenderer returns a renderer producing horizontal bar charts, one
// bar per option in the order given.
func NewSVGRenderer() ports.ChartRenderer {
	return svgRenderer{}
}

func (svgRenderer) RenderBarChart(caption string, counts []domain.OptionCount) ([]byte, error) {
	if len(counts) == 0 {
		return nil, errors.New("no data to plot")
	}

	var highest int64
	for _, c := range counts {
		if c.Count < 0 {
			return nil, fmt.Errorf("negative count for option %d", c.OptionID)
		}
		if c.Count > highest {
			highest = c.Count
		}
	}

	plotWidth := float64(Width - labelWidth - valueWidth - 2*padding)
	slot := float64(Height-captionHeight-padding) / float64(len(counts))
	barHeight := slot * 0.7

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, Width, Height, Width, Height)
	buf.WriteString("\n")
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="white"/>`, Width, Height)
	buf.WriteString("\n")
	fmt.Fprintf(&buf, `<text x="%d" y="%d" font-family="sans-serif" font-size="20" text-anchor="middle">%s</text>`,
		Width/2, captionHeight-20, html.EscapeString(caption))
	buf.WriteString("\n")

	for i, c := range counts {
		y := float64(captionHeight) + float64(i)*slot + (slot-barHeight)/2
		textY := y + barHeight/2 + 5

		var w float64
		if highest > 0 {
			w = plotWidth * float64(c.Count) / float64(highest)
		}
		x := float64(padding + labelWidth)

		fmt.Fprintf(&buf, `<text x="%d" y="%.1f" font-family="sans-serif" font-size="14" text-anchor="end">%s</text>`,
			padding+labelWidth-padding, textY, html.EscapeString(c.OptionName))
		buf.WriteString("\n")
		fmt.Fprintf(&buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			x, y, w, barHeight, palette[i%len(palette)])
		buf.WriteString("\n")
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="14">%s</text>`,
			x+w+5, textY, humanize.Comma(c.Count))
		buf.WriteString("\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
