// Package workerpool implements spec §4.2: a persistent pool of worker
// goroutines that distributes a large index range across threads with
// lock-free chunk dispensing, first-error capture, and cooperative parent
// participation. It generalizes the hand-rolled goroutine fan-out
// photons4d's cast_rays.go and estimate.go already use (sync.WaitGroup +
// sync/atomic counters) into a reusable, persistent pool rather than a
// one-shot "go func" burst per batch.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/AislingA/SKIRT9/internal/skirterr"
)

// Body is the work function distributed across the pool: it processes
// count indices starting at firstIndex.
type Body func(firstIndex, count int) error

// state is a worker goroutine's place in spec §4.2.3's state machine.
type state int32

const (
	stateIdle state = iota
	stateWorking
	stateTerminating
)

// Pool is a fixed-size, persistent worker pool. It must be constructed
// and its Call method invoked only from the same goroutine (spec §7's
// fatal-usage condition: "WorkerPool.call invoked from a thread other
// than the constructing thread").
type Pool struct {
	threadCount  int
	constructing int64 // goroutine-affinity guard, see callerCheck

	mu         sync.Mutex
	cond       *sync.Cond
	active     []bool // per worker-thread (index 1..threadCount-1) active flag
	terminate  bool
	wake       int64 // generation counter bumped each Call to release workers

	next       int64 // atomic chunk dispenser
	numChunks  int64
	chunkSize  int
	n          int
	body       Body
	firstErr   error
	errOnce    sync.Once
	done       sync.WaitGroup
}

// New constructs a pool with the given fixed thread count (thread 0 is
// the constructing goroutine itself; 1..threadCount-1 are persistent
// worker goroutines parked on the pool's wake-up condition variable).
func New(threadCount int) *Pool {
	if threadCount < 1 {
		threadCount = 1
	}
	p := &Pool{
		threadCount: threadCount,
		active:      make([]bool, threadCount),
	}
	p.cond = sync.NewCond(&p.mu)
	for w := 1; w < threadCount; w++ {
		p.done.Add(1)
		go p.workerLoop(w)
	}
	return p
}

// NewForCPUs is a convenience constructor sized to runtime.NumCPU(),
// matching photons4d's castRays/estimateHitProb worker-count convention.
func NewForCPUs() *Pool {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return New(n)
}

// Close terminates every worker goroutine (spec §4.2.3's any→terminating
// transition) and waits for them to exit. The pool cannot be reused after
// Close.
func (p *Pool) Close() {
	p.mu.Lock()
	p.terminate = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.done.Wait()
}

func (p *Pool) workerLoop(id int) {
	defer p.done.Done()
	lastWake := int64(0)
	for {
		p.mu.Lock()
		for p.wake == lastWake && !p.terminate {
			p.cond.Wait()
		}
		if p.terminate {
			p.mu.Unlock()
			return
		}
		lastWake = p.wake
		p.active[id] = true
		body := p.body
		chunkSize := p.chunkSize
		n := p.n
		p.mu.Unlock()

		p.drainChunks(id, body, chunkSize, n)

		p.mu.Lock()
		p.active[id] = false
		allIdle := true
		for i := 1; i < p.threadCount; i++ {
			if p.active[i] {
				allIdle = false
				break
			}
		}
		if allIdle {
			// Broadcast, not Signal: a worker re-parking on this same cond
			// for the next wake generation could otherwise steal the
			// completion notification meant for Call's waiter (sync.Cond
			// delivers a single Signal FIFO to whoever waits next, worker
			// or parent, not specifically the parent).
			p.cond.Broadcast()
		}
		p.mu.Unlock()
	}
}

// drainChunks implements spec §4.2.2's chunk dispenser: repeatedly fetch-
// add the shared atomic counter until it reports no more work.
func (p *Pool) drainChunks(id int, body Body, chunkSize, n int) {
	for {
		numChunks := atomic.LoadInt64(&p.numChunks)
		idx := atomic.AddInt64(&p.next, 1) - 1
		if idx >= numChunks {
			return
		}
		first := int(idx) * chunkSize
		count := chunkSize
		if first+count > n {
			count = n - first
		}
		if count <= 0 {
			continue
		}
		if err := body(first, count); err != nil {
			p.captureError(err)
			return
		}
	}
}

func (p *Pool) captureError(err error) {
	p.errOnce.Do(func() {
		p.mu.Lock()
		p.firstErr = err
		p.mu.Unlock()
		atomic.StoreInt64(&p.numChunks, 0)
	})
}

// Call runs body over the range [0, N), per spec §4.2.1. When
// chunksOfOne is true each chunk is exactly one index (numChunks = N);
// otherwise numChunks = 8·threadCount, the empirical load-balancing
// factor spec §4.2.1 specifies. Call blocks until every thread is idle,
// then rethrows the first captured error, if any.
func (p *Pool) Call(body Body, n int, chunksOfOne bool) error {
	if err := p.callerCheck(); err != nil {
		return err
	}
	defer atomic.StoreInt64(&p.constructing, 0)
	if n <= 0 {
		return nil
	}

	numChunks := 8 * p.threadCount
	if chunksOfOne {
		numChunks = n
	}
	if numChunks < 1 {
		numChunks = 1
	}
	chunkSize := (n + numChunks - 1) / numChunks

	p.mu.Lock()
	p.body = body
	p.n = n
	p.chunkSize = chunkSize
	p.firstErr = nil
	p.errOnce = sync.Once{}
	atomic.StoreInt64(&p.next, 0)
	atomic.StoreInt64(&p.numChunks, int64(numChunks))
	p.wake++
	for i := 1; i < p.threadCount; i++ {
		p.active[i] = true
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	// Thread 0 (the constructing goroutine) participates as just another
	// consumer of the shared chunk dispenser — spec §4.2.1's "participates
	// in the work itself" — rather than reserving a separate range.
	p.drainChunks(0, body, chunkSize, n)

	p.mu.Lock()
	for {
		allIdle := true
		for i := 1; i < p.threadCount; i++ {
			if p.active[i] {
				allIdle = false
				break
			}
		}
		if allIdle {
			break
		}
		p.cond.Wait()
	}
	err := p.firstErr
	p.mu.Unlock()

	return err
}

// callerCheck enforces spec §7's fatal-usage condition: Call must only be
// invoked from the goroutine that constructed the pool. Go has no
// portable goroutine-identity primitive, so this is a best-effort
// reentrancy guard: overlapping Call invocations (which would indicate a
// second caller racing the first) are rejected outright. The guard is
// held until the successful Call returns.
func (p *Pool) callerCheck() error {
	if !atomic.CompareAndSwapInt64(&p.constructing, 0, 1) {
		return skirterr.New(skirterr.FatalUsage, "workerpool", "Call invoked concurrently with another Call on the same pool")
	}
	return nil
}
