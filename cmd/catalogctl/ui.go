// cmd/catalogctl/ui.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

func newByteBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

type printer struct {
	out    io.Writer
	header *color.Color
	money  *color.Color
	muted  *color.Color
	ok     *color.Color
}

func newPrinter(out io.Writer) *printer {
	if noColor {
		color.NoColor = true
	}
	return &printer{
		out:    out,
		header: color.New(color.Bold, color.FgCyan),
		money:  color.New(color.FgGreen),
		muted:  color.New(color.Faint),
		ok:     color.New(color.FgGreen, color.Bold),
	}
}

func (p *printer) Success(format string, args ...interface{}) {
	p.ok.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *price)
}
