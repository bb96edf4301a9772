package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"placelog/internal/app"
	"placelog/internal/bootstrap"
	"placelog/internal/domain"
	"placelog/internal/shared"
)

type analyzeOpts struct {
	recommend bool
	save      bool
	workers   int
}

func newAnalyzeCmd(cfg *shared.Config) *cobra.Command {
	var o analyzeOpts
	cmd := &cobra.Command{
		Use:   "analyze <place> [place...]",
		Short: "Analyze one or more places and print a report for each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), *cfg, o, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&o.recommend, "recommend", false, "also suggest three similar places")
	cmd.Flags().BoolVar(&o.save, "save", false, "publish each report to Pastebin")
	cmd.Flags().IntVar(&o.workers, "workers", 2, "places analyzed concurrently")
	return cmd
}

type outcome struct {
	sess domain.Session
	err  error
}

func runAnalyze(ctx context.Context, cfg shared.Config, o analyzeOpts, places []string, out io.Writer) error {
	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	history, closeHistory, err := bootstrap.OpenHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeHistory()

	svc, closeSvc, err := bootstrap.Sessions(ctx, cfg, store, history)
	if err != nil {
		return err
	}
	defer closeSvc()

	results := analyzeAll(ctx, svc, o, places)

	failed := 0
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out, "----")
		}
		if r.err != nil {
			failed++
			fmt.Fprintf(out, "%s: %v\n", places[i], r.err)
			continue
		}
		render(out, r.sess)
	}
	if failed == len(results) {
		return errors.New("no place could be analyzed")
	}
	return nil
}

// analyzeAll runs one session per place, at most o.workers at a time.
// Results keep the order of places.
func analyzeAll(ctx context.Context, svc *app.SessionService, o analyzeOpts, places []string) []outcome {
	workers := o.workers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	results := make([]outcome, len(places))
	var wg sync.WaitGroup

	for i, place := range places {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = outcome{err: err}
			continue
		}
		wg.Add(1)
		go func(i int, place string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = analyzeOne(ctx, svc, o, place)
		}(i, place)
	}
	wg.Wait()
	return results
}

func analyzeOne(ctx context.Context, svc *app.SessionService, o analyzeOpts, place string) outcome {
	sess, err := svc.Create(ctx)
	if err != nil {
		return outcome{err: err}
	}
	if sess, err = svc.Analyze(ctx, sess.ID, app.AnalyzeInput{Place: place}); err != nil {
		log.Warn().Err(err).Str("place", place).Msg("analyze failed")
		return outcome{err: err}
	}
	if o.recommend {
		if sess, err = svc.Recommend(ctx, sess.ID); err != nil {
			return outcome{err: err}
		}
	}
	if o.save {
		if sess, err = svc.Save(ctx, sess.ID); err != nil {
			return outcome{err: err}
		}
	}
	return outcome{sess: sess}
}
