package melody

import (
	"runtime"
	"sort"
	"time"

	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/util"
	"github.com/remeh/sizedwaitgroup"
)

// SeedStride derives candidate seeds: candidate i of a search with base
// seed s is generated with s + i*SeedStride.
const SeedStride = 7919

func CandidateSeed(base int64, i int) int64 {
	return base + int64(i)*SeedStride
}

type SearchOptions struct {
	Candidates int
	// TopK is how many of the best candidates the result is drawn from.
	TopK    int
	Workers int
	Weights Weights
}

func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Candidates: 8,
		TopK:       3,
		Workers:    runtime.NumCPU(),
		Weights:    DefaultWeights(),
	}
}

type Candidate struct {
	Index  int
	Melody Melody
	Score  Breakdown
}

type SearchResult struct {
	Best Candidate
	// Ranked holds every candidate, best first.
	Ranked []Candidate
	// Seed is the base seed the candidates were derived from.
	Seed int64
}

// Search generates opts.Candidates melodies in parallel, ranks them by
// score and returns one of the opts.TopK best. Without p.UseSeed a base
// seed is drawn from the clock and reported in the result, so every
// search can be replayed with WithSeed(result.Seed).
func Search(progression []model.ProgressionEntry, p Params, opts SearchOptions) SearchResult {
	n := util.Max(opts.Candidates, 1)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	weights := opts.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	base := p.Seed
	if !p.UseSeed {
		base = time.Now().UnixNano()
	}

	candidates := make([]Candidate, n)
	wg := sizedwaitgroup.New(workers)
	for i := 0; i < n; i++ {
		wg.Add()
		go func(i int) {
			defer wg.Done()
			m := Generate(progression, p.WithSeed(CandidateSeed(base, i)))
			candidates[i] = Candidate{Index: i, Melody: m, Score: Score(m, weights)}
		}(i)
	}
	wg.Wait()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score.Total != candidates[j].Score.Total {
			return candidates[i].Score.Total > candidates[j].Score.Total
		}
		return candidates[i].Index < candidates[j].Index
	})

	k := util.Clamp(opts.TopK, 1, n)
	rng := newRand(p.WithSeed(base))
	return SearchResult{
		Best:   candidates[rng.Intn(k)],
		Ranked: candidates,
		Seed:   base,
	}
}
