package pipeline

// Event is one progress notification from a run. Tag is a stable snake_case
// identifier; Message is display text. Warning events report recoverable
// problems the run continued past.
type Event struct {
	Tag     string
	Message string
	Warning bool
}

// Stream delivers the events of one run. Iterate with Next and Event, then
// check Err, in the manner of bufio.Scanner:
//
//	for stream.Next() {
//	    ev := stream.Event()
//	    ...
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	steps    []func() error
	pending  []Event
	current  Event
	err      error
	cleanups []func(err error)
	finished bool
}

// Next advances to the next event, running pipeline steps as needed. It
// returns false when the run has finished or failed.
func (s *Stream) Next() bool {
	for {
		if len(s.pending) > 0 {
			s.current = s.pending[0]
			s.pending = s.pending[1:]
			return true
		}
		if s.err != nil || len(s.steps) == 0 {
			s.finish()
			return false
		}
		step := s.steps[0]
		s.steps = s.steps[1:]
		if err := step(); err != nil {
			s.err = err
		}
	}
}

// Event returns the event Next advanced to.
func (s *Stream) Event() Event {
	return s.current
}

// Err returns the error that aborted the run, if any. Call after Next
// returns false.
func (s *Stream) Err() error {
	return s.err
}

// push queues steps to run after the ones already queued.
func (s *Stream) push(steps ...func() error) {
	s.steps = append(s.steps, steps...)
}

// emit queues an event for the consumer.
func (s *Stream) emit(ev Event) {
	s.pending = append(s.pending, ev)
}

// onFinish registers a cleanup that runs once when the stream terminates,
// receiving the run error (nil on success). Cleanups run in reverse
// registration order.
func (s *Stream) onFinish(fn func(err error)) {
	s.cleanups = append(s.cleanups, fn)
}

func (s *Stream) finish() {
	if s.finished {
		return
	}
	s.finished = true
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i](s.err)
	}
}
