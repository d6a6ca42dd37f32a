package telemetry

import "context"

// Recorder receives business events worth counting.
type Recorder interface {
	LeadCaptured(ctx context.Context, kind, source string)
	ProjectionComputed(ctx context.Context, tools int, cycle string, total float64)
	CheckoutStarted(ctx context.Context, plan, cycle string)
	Close(ctx context.Context) error
}

// NoOp is the Recorder used when metrics export is disabled.
type NoOp struct{}

func NewNoOp() *NoOp {
	return &NoOp{}
}

func (NoOp) LeadCaptured(context.Context, string, string)             {}
func (NoOp) ProjectionComputed(context.Context, int, string, float64) {}
func (NoOp) CheckoutStarted(context.Context, string, string)          {}
func (NoOp) Close(context.Context) error                              { return nil }
