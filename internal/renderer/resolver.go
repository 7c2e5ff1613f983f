package renderer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shutter/internal/errors"
	"shutter/internal/logging"
)

// probeTimeout bounds the liveness invocation of each candidate binary.
const probeTimeout = 2 * time.Second

// Resolver locates the external renderer binary by probing an ordered list
// of candidate locations. The first candidate that answers the liveness
// check is cached for the process lifetime. The cache lives on the instance,
// not in package state; callers pass the resolver explicitly.
type Resolver struct {
	candidates []string
	exec       Executor
	logger     *zap.Logger

	mu       sync.Mutex
	resolved string
}

// NewResolver creates a Resolver over the given candidate locations.
func NewResolver(candidates []string, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		candidates: candidates,
		exec:       commandExecutor{},
		logger:     logging.OrNop(logger),
	}
	for _, opt := range opts {
		opt.applyResolver(r)
	}
	return r
}

// Resolve returns the renderer binary path, probing candidates on first use.
// Only success is cached: a missing renderer can be installed without
// restarting the server.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved != "" {
		return r.resolved, nil
	}

	for _, candidate := range r.candidates {
		if r.alive(ctx, candidate) {
			r.logger.Info("renderer resolved", zap.String("binary", candidate))
			r.resolved = candidate
			return candidate, nil
		}
	}

	r.logger.Error("no renderer binary found",
		zap.Strings("candidates", r.candidates),
	)
	return "", errors.NewRendererNotFound(r.candidates)
}

// alive runs the trivial liveness invocation against a candidate.
func (r *Resolver) alive(ctx context.Context, binary string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, _, err := r.exec.Run(probeCtx, binary, "--version")
	return err == nil
}

// CandidateStatus reports the availability of one candidate location.
type CandidateStatus struct {
	Path      string `json:"path"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// CheckCandidates probes every candidate and reports availability. Used by
// the doctor command; unlike Resolve, it does not stop at the first hit and
// does not touch the cache.
func (r *Resolver) CheckCandidates(ctx context.Context) []CandidateStatus {
	results := make([]CandidateStatus, 0, len(r.candidates))
	for _, candidate := range r.candidates {
		status := CandidateStatus{Path: candidate}
		if r.alive(ctx, candidate) {
			status.Available = true
		} else {
			status.Detail = "liveness check failed"
		}
		results = append(results, status)
	}
	return results
}
