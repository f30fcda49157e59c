package typeset

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"

	"coderdist/internal/assign"
	"coderdist/internal/logging"
	"coderdist/internal/services"
)

// Job is one coder document to render.
type Job struct {
	Coder   int
	Title   string
	Entries []Entry
	Dest    string
}

// Outcome reports how a job finished.
type Outcome struct {
	Coder    int
	Path     string
	Articles int
	Elapsed  time.Duration
	Err      error
}

// CoderJobs builds one job per coder in result, writing into outputDir.
func CoderJobs(result *assign.Result, titlePattern, outputDir, ext string) []Job {
	coders := result.Coders()
	jobs := make([]Job, 0, len(coders))
	for _, coder := range coders {
		jobs = append(jobs, Job{
			Coder:   coder,
			Title:   CoderTitle(titlePattern, coder),
			Entries: EntriesFromRecords(result.ByCoder[coder]),
			Dest:    filepath.Join(outputDir, CoderFileName(coder, ext)),
		})
	}
	return jobs
}

// RenderAll renders jobs with at most workers running at once. The first
// failure cancels jobs that have not started; outcomes are returned in coder
// order for every job that ran, alongside that first error.
func (g *Generator) RenderAll(ctx context.Context, jobs []Job, workers int) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	outcomes := xsync.NewMap[int, Outcome]()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, job := range jobs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			jobCtx := services.WithStage(services.WithCoder(groupCtx, job.Coder), "render")
			logger := logging.WithContext(jobCtx, g.logger)
			start := time.Now()
			err := g.GenerateCoder(jobCtx, job.Title, job.Entries, job.Dest)
			outcome := Outcome{
				Coder:    job.Coder,
				Articles: len(job.Entries),
				Elapsed:  time.Since(start),
				Err:      err,
			}
			if err != nil {
				logger.Error("document render failed", logging.Error(err))
			} else {
				outcome.Path = job.Dest
				logger.Info("document rendered",
					logging.String("path", job.Dest),
					logging.Int("articles", len(job.Entries)),
					logging.Duration("elapsed", outcome.Elapsed),
				)
			}
			outcomes.Store(job.Coder, outcome)
			return err
		})
	}
	err := group.Wait()

	collected := make([]Outcome, 0, outcomes.Size())
	outcomes.Range(func(_ int, outcome Outcome) bool {
		collected = append(collected, outcome)
		return true
	})
	sort.Slice(collected, func(i, j int) bool { return collected[i].Coder < collected[j].Coder })
	return collected, err
}
