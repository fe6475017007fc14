package md2tex

import (
	"errors"
	"sync"
)

// ExporterPool manages Exporter instances for parallel PDF export. Each
// exporter owns its own browser, enabling true parallelism. Exporters are
// created lazily on first acquire to avoid paying browser startup for
// small batches.
type ExporterPool struct {
	size      int
	exporters []*Exporter
	sem       chan *Exporter
	opts      []ExportOption
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewExporterPool creates a pool with capacity for n exporters, each built
// with opts.
func NewExporterPool(n int, opts ...ExportOption) *ExporterPool {
	if n < 1 {
		n = 1
	}
	return &ExporterPool{
		size: n,
		sem:  make(chan *Exporter, n),
		opts: opts,
	}
}

// Acquire gets an exporter from the pool, creating one if capacity allows.
// Blocks if all exporters are in use.
func (p *ExporterPool) Acquire() *Exporter {
	select {
	case e := <-p.sem:
		return e
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		e := NewExporter(p.opts...)

		p.mu.Lock()
		p.exporters = append(p.exporters, e)
		p.mu.Unlock()

		return e
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns an exporter to the pool.
func (p *ExporterPool) Release(e *Exporter) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- e
}

// Close releases all browser resources, aggregating close errors.
func (p *ExporterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	exporters := p.exporters
	p.mu.Unlock()

	var errs []error
	for _, e := range exporters {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ExporterPool) Size() int {
	return p.size
}
