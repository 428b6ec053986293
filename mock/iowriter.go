package mock

import "sync"

// IOWriter captures everything written to it. It is safe for concurrent use as log
// output may arrive from parallel lookups.
type IOWriter struct {
	mu   sync.Mutex
	line []byte
}

func (t *IOWriter) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.line = t.line[:0]
}

func (t *IOWriter) Write(b []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.line = append(t.line, b...)

	return len(b), nil
}

func (t *IOWriter) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.line)
}

func (t *IOWriter) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.line)
}
