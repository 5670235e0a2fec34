package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// sink is one buffered destination. A failing sink is disabled on its own
// so that, for example, a full disk never silences stdout.
type sink struct {
	w   *bufio.Writer
	err error
}

// asyncWriter fans log lines out to its sinks from a single goroutine.
// Sinks are flushed whenever the queue runs empty, so bursts are batched.
type asyncWriter struct {
	queue chan []byte
	flush chan chan error
	done  chan struct{}

	closeOnce sync.Once
	// state guards closed against concurrent queue sends.
	state  sync.RWMutex
	closed bool

	mu    sync.Mutex
	sinks []*sink
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		queue: make(chan []byte, 512),
		flush: make(chan chan error),
		done:  make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, &sink{w: bufio.NewWriterSize(out, bufSize)})
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				w.flushSinks()
				return
			}
			w.writeSinks(line)
			if len(w.queue) == 0 {
				w.flushSinks()
			}
		case ack := <-w.flush:
			for len(w.queue) > 0 {
				w.writeSinks(<-w.queue)
			}
			w.flushSinks()
			ack <- w.sinkErr()
		}
	}
}

// Write queues a copy of p. It blocks while the queue is full and fails
// once every sink is broken or the writer is closed.
func (w *asyncWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := w.broken(); err != nil {
		return 0, err
	}
	w.state.RLock()
	defer w.state.RUnlock()
	if w.closed {
		return 0, errors.New("logger: writer closed")
	}
	w.queue <- append([]byte(nil), p...)
	return len(p), nil
}

// Flush waits until everything queued so far has reached the sinks.
func (w *asyncWriter) Flush() error {
	w.state.RLock()
	closed := w.closed
	w.state.RUnlock()
	if closed {
		return w.sinkErr()
	}
	ack := make(chan error, 1)
	select {
	case w.flush <- ack:
		return <-ack
	case <-w.done:
		return w.sinkErr()
	}
}

// Close drains the queue, flushes and reports sink failures.
func (w *asyncWriter) Close() error {
	w.closeOnce.Do(func() {
		w.state.Lock()
		w.closed = true
		close(w.queue)
		w.state.Unlock()
	})
	<-w.done
	return w.sinkErr()
}

func (w *asyncWriter) writeSinks(line []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sinks {
		if s.err != nil {
			continue
		}
		if _, err := s.w.Write(line); err != nil {
			s.err = err
		}
	}
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, s := range w.sinks {
		if s.err != nil {
			continue
		}
		if err := s.w.Flush(); err != nil {
			s.err = err
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) sinkErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, s := range w.sinks {
		if s.err != nil {
			errs = append(errs, s.err)
		}
	}
	return errors.Join(errs...)
}

// broken reports an error when no sink can accept writes any more.
func (w *asyncWriter) broken() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.sinks) == 0 {
		return nil
	}
	var errs []error
	for _, s := range w.sinks {
		if s.err == nil {
			return nil
		}
		errs = append(errs, s.err)
	}
	return errors.Join(errs...)
}
