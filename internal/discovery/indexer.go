package discovery

import (
	"context"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"pytdbg/internal/domain"
	"pytdbg/internal/testid"
)

// Progress receives indexing progress updates
type Progress interface {
	Update(files, tests int)
	Finish()
}

// Indexer reads test files in parallel and resolves their triggers to
// identifiers for both runners
type Indexer struct {
	builder  *testid.Builder
	workers  int
	progress Progress
}

// NewIndexer creates an Indexer using the given number of workers
func NewIndexer(builder *testid.Builder, workers int) *Indexer {
	if workers <= 0 {
		workers = 1
	}
	return &Indexer{builder: builder, workers: workers}
}

// SetProgress sets the progress sink for the indexer
func (ix *Indexer) SetProgress(progress Progress) {
	ix.progress = progress
}

// Index processes files relative to projectRoot. Files that cannot be read
// are returned with Err set. Results are sorted by path.
func (ix *Indexer) Index(ctx context.Context, projectRoot string, files []string) []domain.FileTriggers {
	if len(files) == 0 {
		return nil
	}

	queue := make(chan string, len(files))
	for _, file := range files {
		queue <- file
	}
	close(queue)

	results := make(chan domain.FileTriggers, len(files))

	var mu sync.Mutex
	var completedFiles, foundTests int

	var wg sync.WaitGroup
	for i := 0; i < ix.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range queue {
				if ctx.Err() != nil {
					return
				}
				result := ix.IndexFile(ctx, projectRoot, file)
				results <- result

				mu.Lock()
				completedFiles++
				foundTests += len(result.Tests)
				if ix.progress != nil {
					ix.progress.Update(completedFiles, foundTests)
				}
				mu.Unlock()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []domain.FileTriggers
	for result := range results {
		all = append(all, result)
	}
	if ix.progress != nil {
		ix.progress.Finish()
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all
}

// IndexFile resolves every trigger of a single file
func (ix *Indexer) IndexFile(ctx context.Context, projectRoot, file string) domain.FileTriggers {
	result := domain.FileTriggers{
		Path:    file,
		RelPath: testid.RelativePath(projectRoot, file),
	}

	data, err := os.ReadFile(file)
	if err != nil {
		result.Err = errors.Wrapf(err, "read %s", file)
		return result
	}

	text := string(data)
	lines := SplitLines(text)
	for _, trigger := range FindTestTriggers(ctx, text) {
		target := ix.builder.Target(file, lines, trigger.Line, trigger.FunctionName, domain.RunnerPytest)
		pytestID := ix.builder.Build(target, projectRoot)
		target.Runner = domain.RunnerUnittest
		result.Tests = append(result.Tests, domain.IndexedTest{
			Trigger:    trigger,
			ClassName:  target.ClassName,
			PytestID:   pytestID,
			UnittestID: ix.builder.Build(target, projectRoot),
		})
	}
	return result
}
