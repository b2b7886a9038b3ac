package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/credenceproj/credence/internal/model"
)

// Evaluator runs one research bundle file through the verification
// pipeline.
type Evaluator interface {
	EvaluateFile(ctx context.Context, path string) (*model.QualityReport, error)
}

// EvaluateJob wraps a single bundle path for pool execution.
type EvaluateJob struct {
	Path      string
	Evaluator Evaluator
}

// Execute evaluates the bundle and wraps the outcome.
func (j *EvaluateJob) Execute(ctx context.Context) Result {
	report, err := j.Evaluator.EvaluateFile(ctx, j.Path)
	if err != nil {
		return &EvaluateResult{Path: j.Path, Error: err}
	}

	return &EvaluateResult{Path: j.Path, Report: report}
}

// EvaluateResult pairs a bundle path with its report or failure.
type EvaluateResult struct {
	Path   string
	Report *model.QualityReport
	Error  error
}

// GetError returns the evaluation failure, or nil.
func (r *EvaluateResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many bundles concurrently. One bundle
// failing does not stop the rest.
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(evaluator Evaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// ProcessPaths evaluates the given bundle files concurrently. Results
// arrive in completion order, each tagged with its source path.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*EvaluateResult {
	if len(paths) == 0 {
		return []*EvaluateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&EvaluateJob{Path: path, Evaluator: b.evaluator})
	}

	results := pool.Wait()

	evaluated := make([]*EvaluateResult, len(results))
	for i, result := range results {
		evaluated[i] = result.(*EvaluateResult)
	}

	return evaluated
}

// ProcessFile reads bundle paths from a list file and evaluates them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*EvaluateResult, error) {
	paths, err := ReadBundleList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read bundle list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadBundleList reads bundle paths from a file, one per line. Blank
// lines and #-comments are skipped; duplicates are dropped.
func ReadBundleList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle list: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan bundle list: %w", err)
	}

	return paths, nil
}
