// Package ioutil provides the async buffer-refill collaborator kept
// external to the core: a BufferSource that owns a read-source handle,
// checks cancellation before each read, and releases the handle on Close
// unless configured to leave it open. tabdsv.Reader drives the
// compaction/growth itself around whatever BufferSource it is given (see
// tabdsv.Reader.fill) — this package supplies a BufferSource that adds
// resource ownership on top of a plain io.Reader, for callers that hand
// Reader a closable source (a file, a network connection).
package ioutil

import (
	"context"
	"io"
)

// RefillSource adapts an io.Reader (optionally an io.Closer) to
// tabdsv.BufferSource. Cancellation is cooperative: it checks ctx before
// every read. It closes the underlying handle on Close unless leaveOpen
// was requested at construction.
type RefillSource struct {
	r         io.Reader
	leaveOpen bool
}

// NewRefillSource wraps r. leaveOpen, when true, makes Close a no-op even
// if r implements io.Closer.
func NewRefillSource(r io.Reader, leaveOpen bool) *RefillSource {
	return &RefillSource{r: r, leaveOpen: leaveOpen}
}

// FillBuffer reads into buf, returning (0, false, ctx.Err()) without
// touching r if ctx is already cancelled.
func (s *RefillSource) FillBuffer(ctx context.Context, buf []byte) (n int, eof bool, err error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	n, err = s.r.Read(buf)
	if err == io.EOF {
		return n, true, nil
	}
	return n, false, err
}

// Close releases the underlying handle, unless leaveOpen was set at
// construction or r does not implement io.Closer.
func (s *RefillSource) Close() error {
	if s.leaveOpen {
		return nil
	}
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
