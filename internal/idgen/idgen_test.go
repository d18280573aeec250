package idgen

import (
	"sync"
	"testing"
)

func TestSequenceStartsAtGivenValue(t *testing.T) {
	s := NewSequence(100)
	if got := s.NextID(); got != 100 {
		t.Fatalf("first id = %d, want 100", got)
	}
	if got := s.NextID(); got != 101 {
		t.Fatalf("second id = %d, want 101", got)
	}
}

func TestSequenceConcurrentUnique(t *testing.T) {
	const workers = 8
	const perWorker = 1000

	s := NewSequence(1)
	var wg sync.WaitGroup
	ids := make(chan uint64, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ids <- s.NextID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]struct{}, workers*perWorker)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("got %d ids, want %d", len(seen), workers*perWorker)
	}
}

func TestSnowflakeMonotonic(t *testing.T) {
	g, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("new snowflake: %v", err)
	}
	prev := g.NextID()
	for i := 0; i < 100; i++ {
		next := g.NextID()
		if next <= prev {
			t.Fatalf("id %d not greater than previous %d", next, prev)
		}
		prev = next
	}
}

func TestSnowflakeRejectsBadNode(t *testing.T) {
	if _, err := NewSnowflake(-1); err == nil {
		t.Fatal("expected error for negative node id")
	}
}
