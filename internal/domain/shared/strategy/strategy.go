package strategy

// Strategy names an interchangeable algorithm, e.g. a pricing rule set
type Strategy interface {
	Name() string
	Description() string
}

// Named carries the name and description of a strategy implementation
type Named struct {
	name        string
	description string
}

// NewNamed returns a Named for embedding
func NewNamed(name, description string) Named {
	return Named{name: name, description: description}
}

func (n Named) Name() string        { return n.name }
func (n Named) Description() string { return n.description }
