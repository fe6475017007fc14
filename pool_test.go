package md2tex

import "testing"

func TestExporterPoolSize(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "positive", n: 3, want: 3},
		{name: "zero clamps to one", n: 0, want: 1},
		{name: "negative clamps to one", n: -2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewExporterPool(tt.n)
			defer p.Close()
			if got := p.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExporterPoolAcquireRelease(t *testing.T) {
	p := NewExporterPool(2)
	defer p.Close()

	// Browsers launch lazily, so acquiring never spawns a process here.
	e1 := p.Acquire()
	e2 := p.Acquire()
	if e1 == nil || e2 == nil {
		t.Fatal("Acquire returned nil")
	}
	if e1 == e2 {
		t.Error("pool handed out the same exporter twice")
	}

	p.Release(e1)
	if got := p.Acquire(); got != e1 {
		t.Error("released exporter not reused")
	}
}

func TestExporterPoolCloseIdempotent(t *testing.T) {
	p := NewExporterPool(1)
	e := p.Acquire()

	if err := p.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	// Releasing after close must not panic on the closed channel.
	p.Release(e)
}
