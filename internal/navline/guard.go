package navline

// WithLock returns fn wrapped so that selection changes it causes do not
// clear the goal x. The lock is set before fn runs and released one
// scheduler turn after the last guarded call returns. If fn panics the
// unlock is still scheduled and the panic propagates to the caller.
func (s *State) WithLock(fn func()) func() {
	return func() {
		s.acquire()
		defer s.release()
		fn()
	}
}

// Guard is WithLock for a function returning a value.
func Guard[R any](s *State, fn func() R) func() R {
	return func() R {
		s.acquire()
		defer s.release()
		return fn()
	}
}

// Guard1 is WithLock for a function of one argument.
func Guard1[A, R any](s *State, fn func(A) R) func(A) R {
	return func(a A) R {
		s.acquire()
		defer s.release()
		return fn(a)
	}
}

// Guard2 is WithLock for a function of two arguments.
func Guard2[A, B, R any](s *State, fn func(A, B) R) func(A, B) R {
	return func(a A, b B) R {
		s.acquire()
		defer s.release()
		return fn(a, b)
	}
}
