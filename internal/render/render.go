package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Page is one rasterized PDF page, numbered 1-based in document order.
type Page struct {
	Number int
	Path   string
}

// Rasterizer renders every page of a PDF into an image file.
type Rasterizer interface {
	RenderPages(ctx context.Context, pdfPath, destDir string) ([]Page, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, detail)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

// Option configures the renderer.
type Option func(*Pdftoppm)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(r *Pdftoppm) {
		if executor != nil {
			r.exec = executor
		}
	}
}

// Pdftoppm rasterizes PDF pages through the poppler pdftoppm binary, using
// pdfcpu to validate the document and fix the expected page count.
type Pdftoppm struct {
	binary  string
	dpi     int
	timeout time.Duration
	exec    Executor
}

// New constructs a pdftoppm-backed rasterizer.
func New(binary string, dpi, timeoutSeconds int, opts ...Option) (*Pdftoppm, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("pdftoppm binary required")
	}
	if dpi <= 0 {
		dpi = 150
	}
	r := &Pdftoppm{
		binary:  binary,
		dpi:     dpi,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// PageCount returns the number of pages in the PDF.
func PageCount(pdfPath string) (int, error) {
	count, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("read page count: %w", err)
	}
	return count, nil
}

// RenderPages renders every page into destDir and returns the pages in
// document order. A missing or unreadable page is an error: downstream
// stages must never see a partial page sequence.
func (r *Pdftoppm) RenderPages(ctx context.Context, pdfPath, destDir string) ([]Page, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("input file: %w", err)
	}
	expected, err := PageCount(pdfPath)
	if err != nil {
		return nil, err
	}
	if expected == 0 {
		return nil, fmt.Errorf("document %s has no pages", filepath.Base(pdfPath))
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create render directory: %w", err)
	}

	renderCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	prefix := filepath.Join(destDir, "page")
	args := []string{"-png", "-r", fmt.Sprintf("%d", r.dpi), pdfPath, prefix}
	if err := r.exec.Run(renderCtx, r.binary, args); err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", filepath.Base(pdfPath), err)
	}

	pages, err := collectPages(destDir, "page")
	if err != nil {
		return nil, err
	}
	if len(pages) != expected {
		return nil, fmt.Errorf("rendered %d pages, document has %d", len(pages), expected)
	}
	return pages, nil
}

// collectPages gathers rendered page images named prefix-N.png and returns
// them sorted by page number. pdftoppm zero-pads the page index based on
// the document size, so numbers are parsed rather than compared as strings.
func collectPages(dir, prefix string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read render directory: %w", err)
	}

	var pages []Page
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix+"-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		numberPart := strings.TrimSuffix(strings.TrimPrefix(name, prefix+"-"), ".png")
		number := 0
		if _, err := fmt.Sscanf(numberPart, "%d", &number); err != nil || number <= 0 {
			continue
		}
		pages = append(pages, Page{Number: number, Path: filepath.Join(dir, name)})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })

	for i, page := range pages {
		if page.Number != i+1 {
			return nil, fmt.Errorf("page sequence has a gap at %d", i+1)
		}
	}
	return pages, nil
}
