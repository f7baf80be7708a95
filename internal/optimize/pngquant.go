package optimize

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os/exec"
	"strings"
)

const (
	DefaultMinQuality = 0.7
	DefaultMaxQuality = 0.9

	// pngquant exit statuses for results it declined to write
	exitTooLarge      = 98
	exitQualityTooLow = 99
)

// Pngquant runs the pngquant binary as a lossy in-place pass over PNG files.
type Pngquant struct {
	Binary     string
	MinQuality float64
	MaxQuality float64
}

// NewPngquant looks pngquant up in PATH and uses the default quality band.
func NewPngquant() (*Pngquant, error) {
	bin, err := exec.LookPath("pngquant")
	if err != nil {
		return nil, fmt.Errorf("pngquant is required by --optimize: %w", err)
	}
	return &Pngquant{Binary: bin, MinQuality: DefaultMinQuality, MaxQuality: DefaultMaxQuality}, nil
}

func (p *Pngquant) qualityArg() string {
	return fmt.Sprintf("--quality=%d-%d", percent(p.MinQuality), percent(p.MaxQuality))
}

func percent(q float64) int {
	return int(math.Round(q * 100))
}

// Optimize rewrites path in place. It reports whether a smaller file within
// the quality band was written. pngquant declining or failing is not an
// error; only a cancelled context is.
func (p *Pngquant) Optimize(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, p.Binary,
		p.qualityArg(),
		"--skip-if-larger",
		"--force",
		"--output", path,
		path,
	)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case exitTooLarge, exitQualityTooLow:
			return false, nil
		}
	}
	log.Printf("[optimize] pngquant left %s unchanged: %v %s", path, err, strings.TrimSpace(string(out)))
	return false, nil
}
