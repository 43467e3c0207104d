package sim

// EventSink receives named events, fire-and-forget. Audio players and
// telemetry collectors implement it.
type EventSink interface {
	Trigger(event string)
}

// recorder collects the events of the current tick and forwards them.
type recorder struct {
	events []string
	sinks  []EventSink
}

// Emit implements systems.Emitter.
func (r *recorder) Emit(event string) {
	r.events = append(r.events, event)
	for _, s := range r.sinks {
		s.Trigger(event)
	}
}

func (r *recorder) reset() {
	r.events = r.events[:0]
}
