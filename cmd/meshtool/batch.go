package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-lod/pkg/simplify"
)

var errOutputCollision = errors.New("output name collision")

type batchJob struct {
	in, out string
}

type batchResult struct {
	stats   simplify.Stats
	elapsed time.Duration
	err     error
}

func (a *app) cmdBatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	outDir := fs.String("out", "", "Output directory (required)")
	suffix := fs.String("suffix", a.cfg.Batch.Suffix, "Appended to output file names")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outDir == "" || fs.NArg() < 1 {
		return usageError("meshtool batch -out <dir> [-suffix s] <file.obj|dir>...")
	}

	inputs, err := collectOBJ(fs.Args())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no .obj files in %s", strings.Join(fs.Args(), ", "))
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}

	jobs := make([]batchJob, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		jobs[i] = batchJob{in: in, out: filepath.Join(*outDir, name+*suffix+".obj")}
	}

	if err := checkOutputs(jobs); err != nil {
		return err
	}

	results := a.runBatch(ctx, jobs)

	var errs error
	for i, r := range results {
		if r.err != nil {
			errs = multierr.Append(errs, r.err)
			continue
		}
		printStats(a, jobs[i].out, r.stats)
	}

	failed := len(multierr.Errors(errs))
	fmt.Fprintf(a.out, "Processed %d files, %d failed\n", len(jobs), failed)
	return errs
}

// checkOutputs rejects jobs that would write the same file. Names are compared
// case-insensitively.
func checkOutputs(jobs []batchJob) error {
	seen := make(map[string]string, len(jobs))
	var errs error
	for _, job := range jobs {
		key := strings.ToLower(filepath.Clean(job.out))
		if prev, ok := seen[key]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s and %s both write %s", errOutputCollision, prev, job.in, job.out))
			continue
		}
		seen[key] = job.in
	}
	return errs
}

// runBatch decimates every job on a bounded worker pool. Each worker builds
// its own graph; a failed file does not stop the others.
func (a *app) runBatch(ctx context.Context, jobs []batchJob) []batchResult {
	log := a.log.Named("batch")
	results := make([]batchResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(a.cfg.Batch.WorkerCount())

	var mu sync.Mutex
	done := 0

	for i, job := range jobs {
		g.Go(func() error {
			start := time.Now()
			opts := a.cfg.Simplify.Options(log.With(zap.String("file", job.in)))
			stats, err := simplifyFile(ctx, job.in, job.out, opts)
			results[i] = batchResult{stats: stats, elapsed: time.Since(start), err: err}

			mu.Lock()
			done++
			n := done
			mu.Unlock()

			if err != nil {
				log.Warn("file failed", zap.String("file", job.in), zap.Error(err))
			} else {
				log.Info("file done",
					zap.String("file", job.in),
					zap.Int("progress", n),
					zap.Int("total", len(jobs)),
					zap.Duration("elapsed", results[i].elapsed),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// collectOBJ expands directories to the .obj files directly inside them.
func collectOBJ(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".obj") {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
