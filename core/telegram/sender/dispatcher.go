// Package sender runs outbound Telegram calls on a small pool of workers.
// Calls for one chat share a partition and therefore keep their order.
package sender

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/logger"
)

var (
	// ErrQueueClosed is returned once Close has been called.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull is returned when the partition buffer has no room.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

// Options tunes a Dispatcher. Zero values pick defaults.
type Options struct {
	// Workers is the number of partitions, each served by one goroutine.
	Workers int
	// QueueSize is the buffer of each partition.
	QueueSize  int
	MaxRetries int
	// RetryBackoff grows linearly with the attempt number.
	RetryBackoff time.Duration
	// MaxDuration bounds one call including its retries.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

// call is one queued Telegram request.
type call struct {
	ctx      context.Context
	action   string
	endpoint string
	fn       func() error
	// reply is nil for fire-and-forget calls.
	reply chan error
}

// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	opts  Options
	parts []chan call
	wg    sync.WaitGroup

	gate   sync.RWMutex
	closed bool

	next   atomic.Uint64
	failed atomic.Uint64
}

// NewDispatcher starts the workers.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{opts: opts, parts: make([]chan call, opts.Workers)}
	for i := range d.parts {
		d.parts[i] = make(chan call, opts.QueueSize)
		d.wg.Add(1)
		go d.serve(d.parts[i])
	}
	return d
}

// Enqueue queues fn without waiting for it. fn may run more than once.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, fn func() error) error {
	return d.push(call{ctx: ctx, action: action, endpoint: endpoint, fn: fn})
}

// Do queues fn and waits for its final result. When ctx ends first Do
// returns ctx.Err() and fn may still run afterwards.
func (d *Dispatcher) Do(ctx context.Context, action, endpoint string, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reply := make(chan error, 1)
	if err := d.push(call{ctx: ctx, action: action, endpoint: endpoint, fn: fn, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ErrorCount is the number of calls that failed after all attempts.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.failed.Load()
}

// Close rejects new calls and waits until queued ones have run.
func (d *Dispatcher) Close() {
	d.gate.Lock()
	if d.closed {
		d.gate.Unlock()
		return
	}
	d.closed = true
	for _, p := range d.parts {
		close(p)
	}
	d.gate.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) push(c call) error {
	if c.fn == nil {
		return errors.New("telegram sender: nil run function")
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	d.gate.RLock()
	defer d.gate.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.parts[d.partitionFor(c.ctx)] <- c:
		return nil
	default:
		return ErrQueueFull
	}
}

// partitionFor maps the chat carried by ctx onto a partition. Calls without
// a chat are spread round-robin.
func (d *Dispatcher) partitionFor(ctx context.Context) int {
	n := uint64(len(d.parts))
	id := logger.ChatIDFrom(ctx)
	if id == 0 {
		return int(d.next.Add(1) % n)
	}
	if id < 0 {
		id = -id
	}
	return int(uint64(id) % n)
}

func (d *Dispatcher) serve(in <-chan call) {
	defer d.wg.Done()
	for c := range in {
		err := d.execute(c)
		if err != nil {
			d.failed.Add(1)
		}
		if c.reply != nil {
			c.reply <- err
		}
	}
}
