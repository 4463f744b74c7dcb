package vm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation name registered with the global otel
// TracerProvider, matching the package-path-as-name convention.
const tracerName = "github.com/colorfulnotion/embive/vm"

// RunTraced wraps Run in an otel span recording the entry/exit program
// counter and resulting state, additive instrumentation that never touches
// dispatch semantics (see DESIGN.md). A caller with no configured
// TracerProvider still gets Run's normal behavior: otel's default tracer is
// a no-op.
func (it *Interpreter) RunTraced(ctx context.Context) (State, error) {
	tr := otel.Tracer(tracerName)
	ctx, span := tr.Start(ctx, "vm.Run", trace.WithAttributes(
		attribute.Int64("vm.pc.entry", int64(it.PC())),
	))
	defer span.End()

	state, err := it.Run()

	span.SetAttributes(
		attribute.Int64("vm.pc.exit", int64(it.PC())),
		attribute.String("vm.state", state.String()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return state, err
}
