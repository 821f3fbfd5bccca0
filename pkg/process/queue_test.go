package process

import (
	"testing"
	"time"
)

func TestQueueOrder(t *testing.T) {
	q := newLineQueue()
	q.push("1")
	q.push("2")
	q.push("3")

	got := q.pop(0)
	if len(got) != 3 || got[0] != "1" || got[2] != "3" {
		t.Errorf("pop: got=%v, want=[1 2 3]", got)
	}

	if got := q.pop(0); len(got) != 0 {
		t.Errorf("pop on empty queue: got=%v, want=[]", got)
	}
}

func TestQueueWaitsForFirstLine(t *testing.T) {
	q := newLineQueue()
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.push("late")
	}()

	got := q.pop(time.Second)
	if len(got) != 1 || got[0] != "late" {
		t.Errorf("pop: got=%v, want=[late]", got)
	}
}

func TestQueueTimeout(t *testing.T) {
	q := newLineQueue()
	start := time.Now()
	got := q.pop(30 * time.Millisecond)

	if got == nil || len(got) != 0 {
		t.Errorf("pop: got=%v, want empty non-nil slice", got)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("pop returned after %v, before the timeout", elapsed)
	}
}

func TestQueueClosed(t *testing.T) {
	q := newLineQueue()
	q.push("last")
	q.close()

	if got := q.pop(time.Second); len(got) != 1 {
		t.Errorf("pop after close: got=%v, want=[last]", got)
	}

	start := time.Now()
	q.pop(time.Second)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("pop on closed queue waited %v", elapsed)
	}
}
