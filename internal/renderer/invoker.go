// Package renderer drives the external rendering subprocess that turns a URL
// into a raster image, and reconciles its filesystem side effects into
// capture records.
//
// The renderer's own output naming is untrusted and non-deterministic: after
// an invocation, the newest not-yet-claimed file in the partition directory
// is taken as the product of that invocation and renamed under the capture
// identifier. That reconciliation is serialized per partition so concurrent
// captures cannot race for the same file.
package renderer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"shutter/internal/errors"
	"shutter/internal/logging"
	"shutter/internal/shot"
)

// Capture defaults.
const (
	DefaultWidth          = 1200
	DefaultHeight         = 800
	DefaultDelaySeconds   = 3
	DefaultTimeoutSeconds = 10
)

// Option configures renderer components.
type Option interface {
	applyResolver(*Resolver)
	applyInvoker(*Invoker)
}

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return executorOption{exec: exec}
}

type executorOption struct{ exec Executor }

func (o executorOption) applyResolver(r *Resolver) {
	if o.exec != nil {
		r.exec = o.exec
	}
}

func (o executorOption) applyInvoker(inv *Invoker) {
	if o.exec != nil {
		inv.exec = o.exec
	}
}

// WithClock injects a time source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return clockOption{now: now}
}

type clockOption struct{ now func() time.Time }

func (o clockOption) applyResolver(*Resolver) {}

func (o clockOption) applyInvoker(inv *Invoker) {
	if o.now != nil {
		inv.now = o.now
	}
}

// Request holds the parameters for one capture invocation.
type Request struct {
	URL            string
	Width          int
	Height         int
	DelaySeconds   int
	TimeoutSeconds int

	// ID optionally pins the capture identifier; when empty a fresh one is
	// allocated. Callers that set it must allocate a fresh id per attempt.
	ID string
}

// normalize applies capture defaults.
func (r Request) normalize() Request {
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
	if r.DelaySeconds <= 0 {
		r.DelaySeconds = DefaultDelaySeconds
	}
	if r.TimeoutSeconds <= 0 {
		r.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return r
}

// Invoker runs the external renderer for single URLs and claims its output.
type Invoker struct {
	storageRoot string
	resolver    *Resolver
	exec        Executor
	logger      *zap.Logger
	now         func() time.Time

	mu         sync.Mutex
	partitions map[string]*sync.Mutex
}

// NewInvoker creates an Invoker writing under storageRoot.
func NewInvoker(storageRoot string, resolver *Resolver, logger *zap.Logger, opts ...Option) *Invoker {
	inv := &Invoker{
		storageRoot: storageRoot,
		resolver:    resolver,
		exec:        commandExecutor{},
		logger:      logging.OrNop(logger),
		now:         time.Now,
		partitions:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt.applyInvoker(inv)
	}
	return inv
}

// CheckCandidates probes each configured renderer candidate and reports its
// availability. Used by health checks.
func (inv *Invoker) CheckCandidates(ctx context.Context) []CandidateStatus {
	return inv.resolver.CheckCandidates(ctx)
}

// Capture drives one renderer invocation and reconciles its output into a
// capture record. No retries happen here: callers may retry the whole call,
// which is safe because every attempt allocates a fresh identifier.
func (inv *Invoker) Capture(ctx context.Context, req Request) (*shot.Record, error) {
	if req.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}
	req = req.normalize()

	// Allocate the identifier before the subprocess runs so a timeout or
	// crash still leaves a traceable intended id in the logs.
	id := req.ID
	if id == "" {
		id = shot.NewID()
	}
	capturedAt := inv.now()
	partition := shot.PartitionFor(capturedAt)
	partitionDir := filepath.Join(inv.storageRoot, partition)

	inv.logger.Info("capture started",
		zap.String("screenshot_id", id),
		zap.String("url", req.URL),
		zap.String("partition", partition),
	)

	if err := os.MkdirAll(partitionDir, 0755); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create partition directory: %w", err))
	}

	binary, err := inv.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
	defer cancel()

	args := []string{
		"--url", req.URL,
		"--width", strconv.Itoa(req.Width),
		"--height", strconv.Itoa(req.Height),
		"--delay", strconv.Itoa(req.DelaySeconds),
		"--timeout", strconv.Itoa(req.TimeoutSeconds),
		"--outdir", partitionDir,
	}
	if _, stderr, err := inv.exec.Run(runCtx, binary, args...); err != nil {
		inv.logger.Warn("renderer invocation failed",
			zap.String("screenshot_id", id),
			zap.Error(err),
		)
		return nil, errors.NewRendererFailed(truncateStderr(stderr), err)
	}

	fileName, err := inv.claim(id, partition, partitionDir)
	if err != nil {
		return nil, err
	}

	filePath := filepath.Join(partitionDir, fileName)
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("stat claimed file: %w", err))
	}

	inv.logger.Info("capture completed",
		zap.String("screenshot_id", id),
		zap.String("file", fileName),
		zap.Int64("size_bytes", info.Size()),
	)

	return &shot.Record{
		ID:         id,
		URL:        req.URL,
		CapturedAt: capturedAt,
		Partition:  partition,
		FileName:   fileName,
		FilePath:   filePath,
		SizeBytes:  info.Size(),
	}, nil
}

// claim selects the newest not-yet-claimed file in the partition directory
// and renames it under the capture identifier. The listing-and-rename window
// is serialized per partition.
func (inv *Invoker) claim(id, partition, partitionDir string) (string, error) {
	lock := inv.partitionLock(partition)
	lock.Lock()
	defer lock.Unlock()

	entries, err := os.ReadDir(partitionDir)
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("list partition directory: %w", err))
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || shot.Claimed(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
	}

	if newest == "" {
		return "", errors.NewNoOutput(partition)
	}

	claimed := shot.ComposeFileName(id, newest)
	from := filepath.Join(partitionDir, newest)
	to := filepath.Join(partitionDir, claimed)
	if err := os.Rename(from, to); err != nil {
		return "", errors.NewRenameFailed(from, to, err)
	}
	return claimed, nil
}

// partitionLock returns the mutex serializing claims for a partition key.
func (inv *Invoker) partitionLock(partition string) *sync.Mutex {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	lock, ok := inv.partitions[partition]
	if !ok {
		lock = &sync.Mutex{}
		inv.partitions[partition] = lock
	}
	return lock
}
