package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"reachwatch/internal/digest"
	"reachwatch/internal/logging"
	"reachwatch/internal/metrics"
	"reachwatch/internal/services"
)

const component = "pipeline"

// ManifestSource yields the set of archived digests.
type ManifestSource interface {
	Fetch(ctx context.Context) (digest.Set, error)
}

// Discoverer yields candidate download identifiers.
type Discoverer interface {
	Discover(ctx context.Context) ([]uint64, error)
}

// Retriever extracts game jars for one download identifier.
type Retriever interface {
	Retrieve(ctx context.Context, id uint64) ([]string, error)
}

// Comparator reports whether a file's digest is missing from a set.
type Comparator interface {
	IsUnarchived(archived digest.Set, path string) bool
}

// Options tune an Orchestrator.
type Options struct {
	// SingleArtifact makes any retrieval failure, or an already archived
	// artifact, fail the run.
	SingleArtifact bool
	Metrics        metrics.Recorder
	Logger         *slog.Logger
}

// Result summarises a run.
type Result struct {
	RunID      string
	Candidates []uint64
	Extracted  int
	Failed     []uint64
	Fresh      []string
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	manifest   ManifestSource
	discoverer Discoverer
	retriever  Retriever
	comparator Comparator
	single     bool
	metrics    metrics.Recorder
	logger     *slog.Logger
	newRunID   func() string
}

// New constructs an Orchestrator.
func New(manifest ManifestSource, discoverer Discoverer, retriever Retriever, comparator Comparator, opts Options) *Orchestrator {
	recorder := opts.Metrics
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Orchestrator{
		manifest:   manifest,
		discoverer: discoverer,
		retriever:  retriever,
		comparator: comparator,
		single:     opts.SingleArtifact,
		metrics:    recorder,
		logger:     logging.NewComponentLogger(opts.Logger, component),
		newRunID:   uuid.NewString,
	}
}

// Run executes one check and returns the fresh artifact paths. The error is
// non-nil when the manifest or discovery fails, or, in single-artifact mode,
// when the artifact is missing or already archived.
func (o *Orchestrator) Run(ctx context.Context) (result *Result, err error) {
	start := time.Now()
	result = &Result{RunID: o.newRunID()}
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, o.logger)
	defer func() {
		o.metrics.ObserveRun(err == nil, time.Since(start))
	}()

	logger.Info("check started", logging.Bool("single_artifact", o.single))

	archived, ids, err := o.prepare(ctx)
	if err != nil {
		logging.ErrorWithContext(logger, "check aborted", "run_failed",
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err),
		)
		return result, err
	}
	result.Candidates = ids
	o.metrics.SetCandidates(len(ids))

	fresh, err := o.fanOut(ctx, archived, ids, result)
	if err != nil {
		return result, err
	}
	result.Fresh = fresh

	if len(fresh) == 0 {
		logging.WarnWithContext(logger, "no fresh game jars", "no_fresh_version",
			logging.Int("candidates", len(ids)),
			logging.Int("extracted", result.Extracted),
			logging.String(logging.FieldImpact, "nothing to archive"),
			logging.String(logging.FieldErrorHint, "none required"),
		)
		if o.single {
			return result, services.Wrap(services.ErrAlreadyArchived, component, "compare", "artifact digest already in manifest", nil)
		}
	} else {
		logging.WarnWithContext(logger, "fresh game jars found", "fresh_version",
			logging.Int("count", len(fresh)),
			logging.Duration("elapsed", time.Since(start)),
			logging.String(logging.FieldImpact, "new version should be archived"),
			logging.String(logging.FieldErrorHint, "submit the printed jars to the archive"),
		)
	}
	return result, nil
}

// prepare runs the manifest fetch and discovery concurrently. The first
// failure cancels the other side.
func (o *Orchestrator) prepare(ctx context.Context) (digest.Set, []uint64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		archived digest.Set
		ids      []uint64
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		set, err := o.manifest.Fetch(ctx)
		if err != nil {
			fail(fmt.Errorf("fetch manifest: %w", err))
			return
		}
		archived = set
	}()
	go func() {
		defer wg.Done()
		found, err := o.discoverer.Discover(ctx)
		if err != nil {
			fail(fmt.Errorf("discover downloads: %w", err))
			return
		}
		ids = found
	}()
	wg.Wait()

	if firstErr != nil {
		return digest.Set{}, nil, firstErr
	}
	return archived, ids, nil
}

type retrieval struct {
	index int
	id    uint64
	paths []string
	err   error
}

func (o *Orchestrator) fanOut(ctx context.Context, archived digest.Set, ids []uint64, result *Result) ([]string, error) {
	results := make(chan retrieval, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths, err := o.retriever.Retrieve(ctx, id)
			results <- retrieval{index: i, id: id, paths: paths, err: err}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	fresh := make([][]string, len(ids))
	var fatal error
	for r := range results {
		taskLogger := logging.WithContext(services.WithDownloadID(ctx, r.id), o.logger)
		if r.err != nil {
			o.metrics.IncRetrieval("failed")
			result.Failed = append(result.Failed, r.id)
			logging.ErrorWithContext(taskLogger, "retrieval failed", "retrieval_failed",
				logging.String(logging.FieldErrorKind, services.Kind(r.err)),
				logging.Error(r.err),
			)
			if o.single && fatal == nil {
				fatal = fmt.Errorf("retrieve %d: %w", r.id, r.err)
			}
			continue
		}
		o.metrics.IncRetrieval("ok")
		result.Extracted += len(r.paths)
		if len(r.paths) == 0 {
			taskLogger.Info("download holds no game jar")
		}
		for _, path := range r.paths {
			isFresh := o.comparator.IsUnarchived(archived, path)
			o.metrics.IncArtifact(isFresh)
			if isFresh {
				taskLogger.Info("game jar not in manifest", logging.String(logging.FieldPath, path))
				fresh[r.index] = append(fresh[r.index], path)
			}
		}
	}
	slices.Sort(result.Failed)
	if fatal != nil {
		return nil, fatal
	}
	if o.single && result.Extracted == 0 {
		return nil, services.Wrap(services.ErrNotFound, component, "retrieve", "no game jar extracted", nil)
	}
	return slices.Concat(fresh...), nil
}
