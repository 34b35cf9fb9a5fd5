package audit

import "context"

// Repository is the append-only audit sink.
type Repository interface {
	Append(ctx context.Context, event Event) error
}

// Emitter accepts events fire-and-forget: emission never blocks or
// fails the mutation that produced the event.
type Emitter interface {
	Emit(event Event)
}
