package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine's limit.
	ErrTimeout = errors.New("engine: evaluation timed out")

	// ErrSuperseded is returned for an evaluation that finished after a
	// later call to Evaluate had started.
	ErrSuperseded = errors.New("engine: evaluation superseded")
)

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation limit. Non-positive values keep
// EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// evalResult carries one evaluation out of its goroutine.
type evalResult struct {
	script *Script
	errors []EvalError
	err    error
}

// current reports whether gen is still the most recent evaluation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// await blocks until the evaluation numbered gen reports on ch or the limit
// passes. A goroutine left running after a timeout is abandoned; its buffered
// send never blocks.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*Script, []EvalError, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.script, res.errors, res.err
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
