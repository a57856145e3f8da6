package spec

// Imposter is the root specification for one AMQP stub instance.
type Imposter struct {
	Connection string          `json:"connection"`
	Reactors   []ReactorSpec   `json:"reactors"`
	Generators []GeneratorSpec `json:"generators,omitempty"`
}
