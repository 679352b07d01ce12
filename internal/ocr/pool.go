package ocr

// Pool bounds concurrent recognitions and checks an engine out for each,
// so each underlying Tesseract client stays single-threaded. Engines are
// created on first checkout, never up front: a run over three images
// spins up three clients regardless of the pool's size.
type Pool struct {
	opts    Options
	engines chan *Engine
}

// NewPool creates a pool of up to size engines sharing one configuration.
func NewPool(size int, opts Options) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{opts: opts, engines: make(chan *Engine, size)}
	// Nil slots become engines lazily.
	for i := 0; i < size; i++ {
		p.engines <- nil
	}
	return p
}

// RecognizeTitle runs title recognition on a checked-out engine.
func (p *Pool) RecognizeTitle(path string) ([]Fragment, error) {
	e := <-p.engines
	if e == nil {
		var err error
		e, err = NewEngine(p.opts)
		if err != nil {
			p.engines <- nil
			return nil, &RecognitionError{Path: path, Err: err}
		}
	}
	defer func() { p.engines <- e }()
	return e.RecognizeTitle(path)
}

// Close releases every engine created so far.
func (p *Pool) Close() error {
	var first error
	for {
		select {
		case e := <-p.engines:
			if e == nil {
				continue
			}
			if err := e.Close(); err != nil && first == nil {
				first = err
			}
		default:
			return first
		}
	}
}
