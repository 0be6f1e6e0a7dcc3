package sustain

import "github.com/rs/zerolog"

// Tracer receives scoring events. It replaces ad-hoc logging inside the
// engine: scoring stays a pure function and instrumentation is opt-in.
type Tracer interface {
	// SubScore is emitted once per weighted component.
	SubScore(product, component string, score float64, weight float64)
	// Total is emitted once per computed score.
	Total(product string, total int)
}

// NopTracer discards all events. It is the Engine default.
type NopTracer struct{}

func (NopTracer) SubScore(string, string, float64, float64) {}
func (NopTracer) Total(string, int)                         {}

// ZerologTracer writes scoring events at debug level.
type ZerologTracer struct {
	Logger zerolog.Logger
}

func (t ZerologTracer) SubScore(product, component string, score, weight float64) {
	t.Logger.Debug().
		Str("product", product).
		Str("component", component).
		Float64("score", score).
		Float64("weight", weight).
		Msg("eco-score component")
}

func (t ZerologTracer) Total(product string, total int) {
	t.Logger.Debug().
		Str("product", product).
		Int("total", total).
		Msg("eco-score total")
}
