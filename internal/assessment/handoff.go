package assessment

// Handoff is what a submitted session passes to the results view.
type Handoff struct {
	TestConfig SessionConfig `json:"testConfig"`
	Questions  []Question    `json:"questions"`
	Results    Result        `json:"results"`
}

// ResultSink receives the single Handoff of a session.
type ResultSink interface {
	Deliver(h Handoff)
}

// SinkFunc adapts a function to ResultSink.
type SinkFunc func(Handoff)

func (f SinkFunc) Deliver(h Handoff) { f(h) }
