package processor

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mahirjain10/pixelmancer/config"
	"github.com/mahirjain10/pixelmancer/internal/transformation"
	"github.com/mahirjain10/pixelmancer/internal/types"
	"github.com/mahirjain10/pixelmancer/internal/utils"
	"github.com/mahirjain10/pixelmancer/internal/walker"
)

const (
	uploadAttempts     = 3
	defaultUploadDelay = 2 * time.Second
)

type Optimizer interface {
	Optimize(ctx context.Context, path string) (bool, error)
}

type Uploader interface {
	UploadtoS3Object(ctx context.Context, key string, filePath string) (string, error)
}

type Notifier interface {
	PublishResized(ctx context.Context, data types.ResizedData) error
}

// Dependencies are the optional collaborators of a Processor. A nil
// collaborator disables its step even when the config asks for it.
type Dependencies struct {
	Optimizer  Optimizer
	Uploader   Uploader
	Notifier   Notifier
	Out        io.Writer
	RetryDelay time.Duration
}

type Processor struct {
	cfg        *config.Config
	runID      string
	optimizer  Optimizer
	uploader   Uploader
	notifier   Notifier
	out        io.Writer
	retryDelay time.Duration
}

func NewProcessor(cfg *config.Config, runID string, deps Dependencies) *Processor {
	p := &Processor{
		cfg:        cfg,
		runID:      runID,
		out:        deps.Out,
		retryDelay: deps.RetryDelay,
	}
	if cfg.Optimize {
		p.optimizer = deps.Optimizer
	}
	if cfg.Upload {
		p.uploader = deps.Uploader
	}
	if cfg.Notify {
		p.notifier = deps.Notifier
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.retryDelay <= 0 {
		p.retryDelay = defaultUploadDelay
	}
	return p
}

// Run processes every PNG below the input directory, one file and one size at
// a time. The first failure stops the run; outputs written before it stay.
func (p *Processor) Run(ctx context.Context) error {
	fmt.Fprintf(p.out, "Processing sprites from: %s\n", p.cfg.InputDir)
	fmt.Fprintf(p.out, "Target sizes: %s px\n", joinSizes(p.cfg.Sizes))
	if len(p.cfg.Sizes) == 0 {
		log.Println("no valid target sizes given, nothing will be written")
	}

	err := walker.Walk(ctx, p.cfg.InputDir, func(entry types.FileEntry) error {
		return p.ProcessFile(ctx, entry)
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, "All sprites resized.")
	if p.optimizer != nil {
		fmt.Fprintln(p.out, "Optimization applied with pngquant.")
	}
	return nil
}

// ProcessFile fans one source file out to every configured size.
func (p *Processor) ProcessFile(ctx context.Context, entry types.FileEntry) error {
	var src image.Image

	for _, size := range p.cfg.Sizes {
		target := utils.NewOutputTarget(p.cfg.OutputDir, size, entry.RelPath)

		if err := os.MkdirAll(target.Dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}

		if src == nil {
			img, err := transformation.Decode(entry.Path)
			if err != nil {
				return err
			}
			src = img
		}
		if err := transformation.ResizeToFile(src, size, target.Path); err != nil {
			return fmt.Errorf("resize %s to %s: %w", entry.RelPath, utils.SizeDir(size), err)
		}
		fmt.Fprintf(p.out, "✔ Resized %s -> %s\n", entry.RelPath, utils.SizeDir(size))

		data := types.ResizedData{
			RunID:  p.runID,
			Source: entry.RelPath,
			Output: target.Path,
			Size:   size,
		}

		if p.optimizer != nil {
			optimized, err := p.optimizer.Optimize(ctx, target.Path)
			if err != nil {
				return err
			}
			if optimized {
				fmt.Fprintf(p.out, "✔ Optimized %s\n", filepath.Base(target.Path))
			}
			data.Optimized = optimized
		}

		if p.uploader != nil {
			key := utils.S3Key(p.cfg.S3KeyPrefix, size, entry.RelPath)
			url, err := p.upload(ctx, key, target.Path)
			if err != nil {
				return err
			}
			data.S3Key = key
			data.PublicURL = url
		}

		if p.notifier != nil {
			if err := p.notifier.PublishResized(ctx, data); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Processor) upload(ctx context.Context, key string, filePath string) (string, error) {
	var uploadErr error
	for i := 0; i < uploadAttempts; i++ {
		url, err := p.uploader.UploadtoS3Object(ctx, key, filePath)
		if err == nil {
			return url, nil
		}
		uploadErr = err
		log.Printf("[upload] %d try: error while uploading %s: %v", i+1, key, err)
		if utils.IsFatalError(err) || ctx.Err() != nil {
			break
		}
		if i < uploadAttempts-1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}
	}
	return "", fmt.Errorf("upload failed for key %s: %w", key, uploadErr)
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, size := range sizes {
		parts[i] = strconv.Itoa(size)
	}
	return strings.Join(parts, ", ")
}
