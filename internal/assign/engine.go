package assign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"coderdist/internal/corpus"
	"coderdist/internal/logging"
	"coderdist/internal/services"
)

// ErrInvalidInput reports parameters the engine cannot satisfy.
var ErrInvalidInput = errors.New("invalid assignment input")

// pcgStream is the fixed second word of the PCG state; the seed supplies the first.
const pcgStream = 0x5eed_c0de

// Params controls one distribution run.
type Params struct {
	Coders           int
	CodersPerArticle int
	// Seed drives the shuffle and remainder placement. Zero draws a fresh seed.
	Seed uint64
	// FirstID is the first assignment ID handed out. Zero means 1.
	FirstID int
}

// Record is one (article, coder) pairing.
type Record struct {
	ID      int
	Coder   int
	Title   string
	Source  string
	Article *corpus.Article
}

// Shortfall describes an article that reached fewer coders than requested.
type Shortfall struct {
	Article *corpus.Article
	Got     int
	Want    int
}

// Result is the outcome of a distribution run.
type Result struct {
	// Articles holds the stamped articles in shuffled order.
	Articles []*corpus.Article
	// Batches holds the partition the windows were cut from.
	Batches [][]*corpus.Article
	// ByCoder maps each 1-based coder to its records in ID order.
	ByCoder    map[int][]Record
	Shortfalls []Shortfall
	Params     Params
}

// Records returns every record sorted by ID.
func (r *Result) Records() []Record {
	total := 0
	for _, records := range r.ByCoder {
		total += len(records)
	}
	out := make([]Record, 0, total)
	for _, coder := range r.Coders() {
		out = append(out, r.ByCoder[coder]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Coders returns the coder numbers in ascending order.
func (r *Result) Coders() []int {
	coders := make([]int, 0, len(r.ByCoder))
	for coder := range r.ByCoder {
		coders = append(coders, coder)
	}
	sort.Ints(coders)
	return coders
}

// BatchSizes returns the number of articles in each batch.
func (r *Result) BatchSizes() []int {
	sizes := make([]int, len(r.Batches))
	for i, batch := range r.Batches {
		sizes[i] = len(batch)
	}
	return sizes
}

// Engine runs balanced assignments.
type Engine struct {
	logger *slog.Logger
}

// NewEngine returns an engine that reports shortfalls through logger.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logging.NewComponentLogger(logger, "assign")}
}

// Validate checks params against a corpus of n articles.
func Validate(n int, p Params) error {
	var msg string
	switch {
	case p.Coders < 1:
		msg = fmt.Sprintf("coders must be positive, got %d", p.Coders)
	case p.CodersPerArticle < 1:
		msg = fmt.Sprintf("coders per article must be positive, got %d", p.CodersPerArticle)
	case p.CodersPerArticle > p.Coders:
		msg = fmt.Sprintf("coders per article (%d) exceeds coders (%d)", p.CodersPerArticle, p.Coders)
	case p.FirstID < 0:
		msg = fmt.Sprintf("first id must be positive, got %d", p.FirstID)
	case n == 0:
		msg = "corpus is empty"
	case n < p.Coders:
		msg = fmt.Sprintf("corpus of %d articles is smaller than %d coders", n, p.Coders)
	default:
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "assign", "validate", msg, ErrInvalidInput)
}

// Run shuffles articles, partitions them, hands each coder its window of
// batches, and stamps assignment IDs onto the articles. Existing stamps on the
// articles are cleared first. The caller's slice is not reordered.
func (e *Engine) Run(ctx context.Context, articles []*corpus.Article, p Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Validate(len(articles), p); err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx, e.logger)
	if p.FirstID == 0 {
		p.FirstID = 1
	}
	if p.Seed == 0 {
		p.Seed = drawSeed()
		logger.Info("drew shuffle seed", logging.Uint64("seed", p.Seed))
	}
	rng := rand.New(rand.NewPCG(p.Seed, pcgStream))

	shuffled := make([]*corpus.Article, len(articles))
	copy(shuffled, articles)
	for _, article := range shuffled {
		article.ResetAssignments()
	}
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	batches := Partition(shuffled, p.Coders, rng)
	byCoder := make(map[int][]Record, p.Coders)
	id := p.FirstID
	for i, window := range Windows(p.Coders, p.CodersPerArticle) {
		coder := i + 1
		seen := make(map[uint64]struct{})
		for _, batchIdx := range window {
			for _, article := range batches[batchIdx] {
				key := article.Key()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				article.Assign(id, coder)
				byCoder[coder] = append(byCoder[coder], Record{
					ID:      id,
					Coder:   coder,
					Title:   article.Title,
					Source:  article.Source,
					Article: article,
				})
				id++
			}
		}
	}

	result := &Result{
		Articles: shuffled,
		Batches:  batches,
		ByCoder:  byCoder,
		Params:   p,
	}
	for _, article := range shuffled {
		if got := len(article.IDs); got != p.CodersPerArticle {
			result.Shortfalls = append(result.Shortfalls, Shortfall{Article: article, Got: got, Want: p.CodersPerArticle})
			logger.Warn("article assigned to fewer coders than requested",
				logging.String("title", article.Title),
				logging.String(logging.FieldSource, article.Source),
				logging.Int("actual", got),
				logging.Int("expected", p.CodersPerArticle),
			)
		}
	}

	logger.Info("articles distributed",
		logging.Int("articles", len(shuffled)),
		logging.Int("coders", p.Coders),
		logging.Int("coders_per_article", p.CodersPerArticle),
		logging.Int("assignments", id-p.FirstID),
		logging.Int("shortfalls", len(result.Shortfalls)),
		logging.Uint64("seed", p.Seed),
	)
	return result, nil
}

// Partition cuts articles into coders contiguous batches of len/coders
// articles and appends each leftover article to a distinct batch chosen by a
// random permutation of batch indices.
func Partition(articles []*corpus.Article, coders int, rng *rand.Rand) [][]*corpus.Article {
	n := len(articles)
	remainder := n % coders
	size := n / coders

	batches := make([][]*corpus.Article, coders)
	for i := range batches {
		batch := make([]*corpus.Article, size, size+1)
		copy(batch, articles[i*size:(i+1)*size])
		batches[i] = batch
	}
	if remainder == 0 {
		return batches
	}
	targets := rng.Perm(coders)
	for j, article := range articles[n-remainder:] {
		batches[targets[j]] = append(batches[targets[j]], article)
	}
	return batches
}

// Windows returns, for each coder, the indices of the width consecutive
// batches it reads, wrapping around the end of the batch list.
func Windows(coders, width int) [][]int {
	windows := make([][]int, coders)
	for i := range windows {
		window := make([]int, width)
		for j := range window {
			window[j] = (i + j) % coders
		}
		windows[i] = window
	}
	return windows
}

func drawSeed() uint64 {
	for {
		if seed := rand.Uint64(); seed != 0 {
			return seed
		}
	}
}
