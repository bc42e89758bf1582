package action

import (
	"context"
	"sync"
)

// OpenCall records one Opener invocation.
type OpenCall struct {
	Op     string // "url", "path", or "reveal"
	Target string
}

// RecordingOpener captures Opener calls instead of launching anything.
type RecordingOpener struct {
	mu    sync.Mutex
	calls []OpenCall
	err   error
}

// NewRecordingOpener returns an Opener that records calls.
func NewRecordingOpener() *RecordingOpener {
	return &RecordingOpener{}
}

// SetError makes every subsequent call return err.
func (r *RecordingOpener) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Calls returns a copy of the recorded calls.
func (r *RecordingOpener) Calls() []OpenCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OpenCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *RecordingOpener) OpenURL(_ context.Context, url string) error {
	return r.record("url", url)
}

func (r *RecordingOpener) OpenPath(_ context.Context, path string) error {
	return r.record("path", path)
}

func (r *RecordingOpener) RevealPath(_ context.Context, path string) error {
	return r.record("reveal", path)
}

func (r *RecordingOpener) record(op, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, OpenCall{Op: op, Target: target})
	return nil
}
