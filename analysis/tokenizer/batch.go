package tokenizer

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sudachigo/sudachigo/analysis/morpheme"
	"github.com/sudachigo/sudachigo/dic"
)

// BatchResult pairs one input sentence with its analysis outcome.
type BatchResult struct {
	Text string
	List *morpheme.List
	Err  error
}

// AnalyzeBatch tokenizes many independent sentences concurrently,
// generalizing the teacher's ParseList/InflectList worker-pool pattern
// (chunk dispatch over runtime.NumCPU() goroutines and a WaitGroup) to
// this package's StatefulTokenizer. Each worker owns
// its own tokenizer, since a StatefulTokenizer is not safe for concurrent
// use (spec.md §5); results are written directly into an index-sized
// slice so input order is preserved without a final sort.
func AnalyzeBatch(dict *dic.Dictionary, plugins Plugins, logger zerolog.Logger, texts []string, mode SplitMode) []BatchResult {
	const chunkSize = 200
	numWorkers := runtime.NumCPU()
	if numWorkers > len(texts) {
		numWorkers = len(texts)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	results := make([]BatchResult, len(texts))

	type chunk struct {
		start int
		texts []string
	}
	chunksCh := make(chan chunk, numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			tok := New(dict, plugins, logger)
			for c := range chunksCh {
				for i, text := range c.texts {
					list, err := tok.Tokenize(text, mode)
					results[c.start+i] = BatchResult{Text: text, List: list, Err: err}
				}
			}
		}()
	}

	go func() {
		for i := 0; i < len(texts); i += chunkSize {
			end := i + chunkSize
			if end > len(texts) {
				end = len(texts)
			}
			chunksCh <- chunk{start: i, texts: texts[i:end]}
		}
		close(chunksCh)
	}()

	wg.Wait()
	return results
}
