package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const barWidth = 30

// ProgressBar draws download progress on a single carriage-returned line.
// Redraws that would print the same line are skipped.
type ProgressBar struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	done  int64
	size  int64
	last  string
}

// NewProgressBar returns a bar labelled with label, usually the file name.
func NewProgressBar(w io.Writer, label string) *ProgressBar {
	return &ProgressBar{w: w, label: label, size: -1}
}

// Update records done of size bytes. A size <= 0 means the length is
// unknown and only the byte count is shown.
func (p *ProgressBar) Update(done, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done, p.size = done, size
	p.draw()
}

// Finish draws the final state and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.size > 0 && p.done < p.size {
		p.done = p.size
	}
	p.draw()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) draw() {
	line := p.line()
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprint(p.w, "\r"+line)
}

func (p *ProgressBar) line() string {
	if p.size <= 0 {
		return fmt.Sprintf("%s %s", p.label, formatBytes(p.done))
	}
	frac := min(float64(p.done)/float64(p.size), 1)
	filled := int(frac * barWidth)
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}
	return fmt.Sprintf("%s [%s] %3.0f%% %s/%s", p.label, bar, frac*100, formatBytes(p.done), formatBytes(p.size))
}

var byteUnits = []string{"KB", "MB", "GB", "TB"}

// formatBytes renders b in binary units with one decimal.
func formatBytes(b int64) string {
	if b < 1024 {
		return fmt.Sprintf("%d B", b)
	}
	v := float64(b) / 1024
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, byteUnits[unit])
}
