package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
)

func TestCallPartitionsExhaustivelyAndDisjointly(t *testing.T) {
	const n = 10007
	p := New(4)
	defer p.Close()

	var mu sync.Mutex
	seen := make([]int, n)

	err := p.Call(func(first, count int) error {
		mu.Lock()
		for i := first; i < first+count; i++ {
			seen[i]++
		}
		mu.Unlock()
		return nil
	}, n, false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want exactly 1", i, c)
		}
	}
}

func TestCallChunksOfOneCoversEveryIndex(t *testing.T) {
	const n = 257
	p := New(3)
	defer p.Close()

	var count int64
	err := p.Call(func(first, cnt int) error {
		if cnt != 1 {
			t.Errorf("chunksOfOne body called with count=%d, want 1", cnt)
		}
		atomic.AddInt64(&count, int64(cnt))
		return nil
	}, n, true)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if count != n {
		t.Fatalf("total indices processed = %d, want %d", count, n)
	}
}

func TestCallZeroNIsNoOp(t *testing.T) {
	p := New(4)
	defer p.Close()

	called := false
	err := p.Call(func(first, count int) error {
		called = true
		return nil
	}, 0, false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if called {
		t.Fatalf("body should never be invoked for N=0")
	}
}

func TestCallPropagatesFirstError(t *testing.T) {
	const n = 1000
	p := New(4)
	defer p.Close()

	boom := errors.New("boom")
	var calls int64
	err := p.Call(func(first, count int) error {
		atomic.AddInt64(&calls, 1)
		if first == 0 {
			return boom
		}
		return nil
	}, n, false)
	if err == nil {
		t.Fatalf("expected an error to propagate")
	}
	if errors.Cause(err) != boom && err != boom {
		t.Fatalf("got error %v, want %v", err, boom)
	}
}

func TestCallReusablePoolAcrossMultipleCalls(t *testing.T) {
	p := New(4)
	defer p.Close()

	for round := 0; round < 5; round++ {
		var total int64
		err := p.Call(func(first, count int) error {
			atomic.AddInt64(&total, int64(count))
			return nil
		}, 500, false)
		if err != nil {
			t.Fatalf("round %d: Call: %v", round, err)
		}
		if total != 500 {
			t.Fatalf("round %d: total = %d, want 500", round, total)
		}
	}
}

func TestCallSingleThreadPool(t *testing.T) {
	p := New(1)
	defer p.Close()

	var total int64
	err := p.Call(func(first, count int) error {
		atomic.AddInt64(&total, int64(count))
		return nil
	}, 123, false)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if total != 123 {
		t.Fatalf("total = %d, want 123", total)
	}
}
