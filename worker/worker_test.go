package worker

import (
	"testing"
	"time"
)

func TestSubmit(t *testing.T) {
	p := NewPool(2, nil)
	defer p.Close()

	done := make(chan int, 1)
	if !p.Submit(func() { done <- 42 }, nil) {
		t.Fatalf("expected job to be accepted")
	}
	select {
	case v := <-done:
		if v != 42 {
			t.Fatalf("unexpected value %d", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestPanicIsRecovered(t *testing.T) {
	p := NewPool(1, nil)
	defer p.Close()

	recovered := make(chan any, 1)
	p.Submit(func() { panic("boom") }, func(v any) { recovered <- v })
	select {
	case v := <-recovered:
		if v != "boom" {
			t.Fatalf("unexpected recovered value %v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("panic was not reported")
	}

	// The worker survives the panic.
	done := make(chan struct{})
	p.Submit(func() { close(done) }, nil)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not survive the panic")
	}
}

func TestClosed(t *testing.T) {
	p := NewPool(1, nil)
	p.Close()
	p.Close()
	if p.Submit(func() {}, nil) {
		t.Fatalf("expected closed pool to reject jobs")
	}
}
