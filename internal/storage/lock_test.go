//go:build unix

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWriteLocker_AcquireRelease(t *testing.T) {
	dir := t.TempDir()
	locker := newWriteLocker(dir)

	if err := locker.acquire(500 * time.Millisecond); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, lockFileName))
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if !strings.Contains(string(data), "pid:") {
		t.Errorf("lock file should contain holder info, got %q", data)
	}

	if err := locker.release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
}

func TestWriteLocker_TimesOutWhileHeld(t *testing.T) {
	dir := t.TempDir()
	holder := newWriteLocker(dir)
	if err := holder.acquire(500 * time.Millisecond); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer holder.release()

	waiter := newWriteLocker(dir)
	err := waiter.acquire(30 * time.Millisecond)
	if err == nil {
		waiter.release()
		t.Fatal("expected timeout while lock is held")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestWriteLocker_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	const numGoroutines = 5
	const numIterations = 10

	var counter int64
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				locker := newWriteLocker(dir)
				if err := locker.acquire(5 * time.Second); err != nil {
					t.Errorf("acquire failed: %v", err)
					return
				}

				val := atomic.LoadInt64(&counter)
				time.Sleep(time.Millisecond)
				atomic.StoreInt64(&counter, val+1)

				if err := locker.release(); err != nil {
					t.Errorf("release failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&counter); got != numGoroutines*numIterations {
		t.Errorf("counter = %d, want %d (lost updates)", got, numGoroutines*numIterations)
	}
}
