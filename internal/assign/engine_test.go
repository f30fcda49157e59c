package assign_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"coderdist/internal/assign"
	"coderdist/internal/corpus"
	"coderdist/internal/services"
)

func makeArticles(n int) []*corpus.Article {
	articles := make([]*corpus.Article, n)
	for i := range articles {
		articles[i] = &corpus.Article{
			Source: fmt.Sprintf("Source %d", i%3),
			Title:  fmt.Sprintf("Article %d", i+1),
			Body:   fmt.Sprintf("body of article %d", i+1),
		}
	}
	return articles
}

func run(t *testing.T, articles []*corpus.Article, p assign.Params) *assign.Result {
	t.Helper()
	result, err := assign.NewEngine(nil).Run(context.Background(), articles, p)
	require.NoError(t, err)
	return result
}

func requireInvariants(t *testing.T, result *assign.Result, n int, p assign.Params) {
	t.Helper()
	firstID := p.FirstID
	if firstID == 0 {
		firstID = 1
	}

	records := result.Records()
	require.Len(t, records, n*p.CodersPerArticle)
	for i, record := range records {
		require.Equal(t, firstID+i, record.ID, "ids must be contiguous")
	}

	sizes := result.BatchSizes()
	require.Len(t, sizes, p.Coders)
	minSize, maxSize := sizes[0], sizes[0]
	for _, size := range sizes {
		minSize = min(minSize, size)
		maxSize = max(maxSize, size)
	}
	require.LessOrEqual(t, maxSize-minSize, 1, "batch sizes %v", sizes)

	for _, article := range result.Articles {
		require.Len(t, article.IDs, p.CodersPerArticle, "article %s", article.Title)
		distinct := make(map[int]struct{})
		for _, coder := range article.Coders {
			distinct[coder] = struct{}{}
		}
		require.Len(t, distinct, p.CodersPerArticle, "article %s has repeated coders", article.Title)
	}

	prevLast := firstID - 1
	for _, coder := range result.Coders() {
		block := result.ByCoder[coder]
		require.NotEmpty(t, block)
		require.Equal(t, prevLast+1, block[0].ID, "coder %d block must follow the previous coder", coder)
		for i := 1; i < len(block); i++ {
			require.Equal(t, block[i-1].ID+1, block[i].ID)
		}
		prevLast = block[len(block)-1].ID
	}
}

func TestRunTenArticlesFiveCodersTwoEach(t *testing.T) {
	p := assign.Params{Coders: 5, CodersPerArticle: 2, Seed: 42}
	result := run(t, makeArticles(10), p)

	requireInvariants(t, result, 10, p)
	require.Equal(t, []int{1, 2, 3, 4, 5}, result.Coders())
	for _, coder := range result.Coders() {
		require.Len(t, result.ByCoder[coder], 4)
	}
	require.Empty(t, result.Shortfalls)
}

func TestRunSpreadsRemainder(t *testing.T) {
	p := assign.Params{Coders: 3, CodersPerArticle: 2, Seed: 7}
	result := run(t, makeArticles(7), p)

	requireInvariants(t, result, 7, p)
	require.ElementsMatch(t, []int{2, 2, 3}, result.BatchSizes())
	require.Len(t, result.Records(), 14)
}

func TestRunEveryCoderReadsEverythingWhenKEqualsCoders(t *testing.T) {
	p := assign.Params{Coders: 4, CodersPerArticle: 4, Seed: 3}
	result := run(t, makeArticles(9), p)

	requireInvariants(t, result, 9, p)
	for _, coder := range result.Coders() {
		require.Len(t, result.ByCoder[coder], 9)
	}
}

func TestRunHonoursFirstID(t *testing.T) {
	p := assign.Params{Coders: 2, CodersPerArticle: 1, Seed: 5, FirstID: 101}
	result := run(t, makeArticles(6), p)

	requireInvariants(t, result, 6, p)
	records := result.Records()
	require.Equal(t, 101, records[0].ID)
	require.Equal(t, 106, records[len(records)-1].ID)
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	p := assign.Params{Coders: 6, CodersPerArticle: 3, Seed: 2024}
	first := run(t, makeArticles(50), p)
	second := run(t, makeArticles(50), p)

	titles := func(result *assign.Result) []string {
		var out []string
		for _, record := range result.Records() {
			out = append(out, fmt.Sprintf("%d:%d:%s", record.ID, record.Coder, record.Title))
		}
		return out
	}
	require.Equal(t, titles(first), titles(second))

	p.Seed = 2025
	third := run(t, makeArticles(50), p)
	require.NotEqual(t, titles(first), titles(third))
}

func TestRunDrawsSeedWhenZero(t *testing.T) {
	result := run(t, makeArticles(4), assign.Params{Coders: 2, CodersPerArticle: 1})
	require.NotZero(t, result.Params.Seed)
	require.Equal(t, 1, result.Params.FirstID)
}

func TestRunLeavesCallerOrderAndClearsStaleStamps(t *testing.T) {
	articles := makeArticles(8)
	articles[0].Assign(999, 9)
	p := assign.Params{Coders: 4, CodersPerArticle: 2, Seed: 11}

	result := run(t, articles, p)
	requireInvariants(t, result, 8, p)
	for i, article := range articles {
		require.Equal(t, fmt.Sprintf("Article %d", i+1), article.Title)
	}
	require.NotContains(t, articles[0].IDs, 999)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		n    int
		p    assign.Params
	}{
		{name: "per article exceeds coders", n: 10, p: assign.Params{Coders: 2, CodersPerArticle: 3, Seed: 1}},
		{name: "fewer articles than coders", n: 3, p: assign.Params{Coders: 5, CodersPerArticle: 2, Seed: 1}},
		{name: "empty corpus", n: 0, p: assign.Params{Coders: 2, CodersPerArticle: 1, Seed: 1}},
		{name: "no coders", n: 4, p: assign.Params{Coders: 0, CodersPerArticle: 1, Seed: 1}},
		{name: "no coders per article", n: 4, p: assign.Params{Coders: 2, CodersPerArticle: 0, Seed: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assign.NewEngine(nil).Run(context.Background(), makeArticles(tt.n), tt.p)
			require.Error(t, err)
			require.ErrorIs(t, err, assign.ErrInvalidInput)
			require.ErrorIs(t, err, services.ErrConfiguration)
		})
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := assign.NewEngine(nil).Run(ctx, makeArticles(4), assign.Params{Coders: 2, CodersPerArticle: 1, Seed: 1})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestRunReportsShortfallForDuplicateBodies(t *testing.T) {
	articles := makeArticles(4)
	articles[1].Body = articles[0].Body
	p := assign.Params{Coders: 2, CodersPerArticle: 2, Seed: 9}

	result := run(t, articles, p)
	require.NotEmpty(t, result.Shortfalls)

	deficit := 0
	for _, shortfall := range result.Shortfalls {
		require.Less(t, shortfall.Got, shortfall.Want)
		require.Equal(t, articles[0].Body, shortfall.Article.Body)
		deficit += shortfall.Want - shortfall.Got
	}
	require.Len(t, result.Records(), 4*2-deficit)
	for _, coder := range result.Coders() {
		bodies := make(map[string]struct{})
		for _, record := range result.ByCoder[coder] {
			_, dup := bodies[record.Article.Body]
			require.False(t, dup, "coder %d received the same body twice", coder)
			bodies[record.Article.Body] = struct{}{}
		}
	}
}

func TestRunInvariantsAcrossShapes(t *testing.T) {
	for coders := 1; coders <= 7; coders++ {
		for perArticle := 1; perArticle <= coders; perArticle++ {
			for n := coders; n <= coders*4+3; n++ {
				p := assign.Params{Coders: coders, CodersPerArticle: perArticle, Seed: uint64(n*100 + coders*10 + perArticle)}
				result := run(t, makeArticles(n), p)
				requireInvariants(t, result, n, p)
			}
		}
	}
}

func TestPartitionSpreadsRemainderOverDistinctBatches(t *testing.T) {
	articles := makeArticles(11)
	batches := assign.Partition(articles, 4, rand.New(rand.NewPCG(1, 2)))

	require.Len(t, batches, 4)
	total := 0
	for _, batch := range batches {
		require.Contains(t, []int{2, 3}, len(batch))
		total += len(batch)
	}
	require.Equal(t, 11, total)
	require.Same(t, articles[0], batches[0][0])
	require.Same(t, articles[2], batches[1][0])
}

func TestWindowsWrapAround(t *testing.T) {
	require.Equal(t, [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}}, assign.Windows(5, 2))
	require.Equal(t, [][]int{{0}, {1}, {2}}, assign.Windows(3, 1))
}
