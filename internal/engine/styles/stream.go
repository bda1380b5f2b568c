package styles

import (
	"slices"
	"sync"
)

// Stream is a running style pipeline. Files flow through it concurrently;
// the stages of one file run in order.
type Stream struct {
	done chan struct{}
	err  error

	mu      sync.Mutex
	written []string
}

func newStream() *Stream {
	return &Stream{done: make(chan struct{})}
}

// Wait blocks until every file has left the pipeline and returns the first
// fatal error. Per-file compile errors are logged, not returned.
func (s *Stream) Wait() error {
	<-s.done
	return s.err
}

// Done is closed once the stream has finished.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Written returns the project-relative paths written so far, sorted.
func (s *Stream) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := slices.Clone(s.written)
	slices.Sort(out)
	return out
}

func (s *Stream) record(paths ...string) {
	s.mu.Lock()
	s.written = append(s.written, paths...)
	s.mu.Unlock()
}

func (s *Stream) finish(err error) {
	s.err = err
	close(s.done)
}
