package signals

// Scope collects disposers and runs each of them exactly once, last registered
// first.
type Scope struct {
	disposers []func()
	disposed  bool
}

func NewScope() *Scope {
	return &Scope{}
}

// OnDispose registers fn. On a disposed scope fn runs immediately.
func (s *Scope) OnDispose(fn func()) {
	if s.disposed {
		fn()
		return
	}
	s.disposers = append(s.disposers, fn)
}

func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	disposers := s.disposers
	s.disposers = nil
	for i := len(disposers) - 1; i >= 0; i-- {
		disposers[i]()
	}
}

func (s *Scope) Disposed() bool {
	return s.disposed
}
