package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Reporter follows the encoding of gallery assets into data URIs.
type Reporter interface {
	Start(assets int)
	// Encoded reports that the current'th asset, name, was encoded to size bytes.
	Encoded(current int, name string, size int)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{}
}

// TerminalReporter shows a bar over the asset count, labelled with the
// running encoded size.
type TerminalReporter struct {
	bar   *progressbar.ProgressBar
	total uint64
}

func (r *TerminalReporter) Start(assets int) {
	r.total = 0
	r.bar = progressbar.NewOptions(assets,
		progressbar.OptionSetDescription("Encoding assets"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Encoded(current int, name string, size int) {
	r.total += uint64(size)
	if r.bar == nil {
		return
	}
	r.bar.Describe(fmt.Sprintf("%s (%s so far)", name, humanize.Bytes(r.total)))
	_ = r.bar.Set(current)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints one line per asset, suitable for CI logs.
type CIReporter struct {
	Out    io.Writer
	assets int
	total  uint64
}

func (r *CIReporter) Start(assets int) {
	r.assets, r.total = assets, 0
	fmt.Fprintf(r.Out, "Encoding %d assets\n", assets)
}

func (r *CIReporter) Encoded(current int, name string, size int) {
	r.total += uint64(size)
	fmt.Fprintf(r.Out, "[%d/%d] %s %s\n", current, r.assets, name, humanize.Bytes(uint64(size)))
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.Out, "Encoded %s of data URIs\n", humanize.Bytes(r.total))
}
