package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	eventpage "github.com/alnah/go-eventpage"
	"github.com/alnah/go-eventpage/internal/fileutil"
)

// DraftConverter converts one draft and renders results as pages.
type DraftConverter interface {
	Convert(md string) (*eventpage.Result, error)
	Page(res *eventpage.Result) (string, error)
}

// Compile-time interface implementation check.
var _ DraftConverter = (*eventpage.Converter)(nil)

// PDFRenderer prints a page to PDF.
type PDFRenderer interface {
	Render(ctx context.Context, page, sourceDir string) ([]byte, error)
}

// RendererPool abstracts renderer pool operations for testability.
type RendererPool interface {
	Acquire(ctx context.Context) (PDFRenderer, error)
	Release(PDFRenderer)
	Size() int
}

// poolAdapter exposes eventpage.RendererPool through RendererPool.
type poolAdapter struct {
	pool *eventpage.RendererPool
}

var _ RendererPool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire(ctx context.Context) (PDFRenderer, error) {
	r, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Release panics on renderers that did not come from the pool.
func (a *poolAdapter) Release(r PDFRenderer) {
	pr, ok := r.(*eventpage.PDFRenderer)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", r))
	}
	a.pool.Release(pr)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// conversionParams groups parameters shared across the batch.
type conversionParams struct {
	conv      DraftConverter
	mode      outputMode
	renderers RendererPool // Set for modePDF only
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Title      string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files with up to workers goroutines.
// Results keep the order of files.
func convertBatch(ctx context.Context, workers int, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}
	workers = max(1, min(workers, len(files)))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
					continue
				}
				results[idx] = convertFile(ctx, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single draft and returns the result.
func convertFile(ctx context.Context, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	finish := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %w", ErrReadDraft, err))
	}

	res, err := params.conv.Convert(string(content))
	if err != nil {
		return finish(err)
	}
	result.Title = res.Title

	output, err := renderOutput(ctx, f, res, params)
	if err != nil {
		return finish(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, output); err != nil {
		return finish(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}
	return finish(nil)
}

// renderOutput produces the bytes written for res in the batch mode.
func renderOutput(ctx context.Context, f FileToConvert, res *eventpage.Result, params *conversionParams) ([]byte, error) {
	if params.mode == modeFragment {
		return []byte(res.Article + "\n"), nil
	}

	page, err := params.conv.Page(res)
	if err != nil {
		return nil, err
	}
	if params.mode == modePage {
		return []byte(page), nil
	}

	renderer, err := params.renderers.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer params.renderers.Release(renderer)

	sourceDir, err := filepath.Abs(filepath.Dir(f.InputPath))
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, page, sourceDir)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s %q (%v)\n", r.InputPath, r.OutputPath, r.Title, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
