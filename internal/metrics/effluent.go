package metrics

import "github.com/sludgeworks/asmsim/internal/biokin"

// Composite reports the running mean of the sum of selected component
// indices in the observed effluent, e.g. total COD or TSS.
type Composite struct {
	name    string
	indices []int
	total   float64
	samples int
}

func NewComposite(name string, indices []int) *Composite {
	return &Composite{name: name, indices: indices}
}

func (c *Composite) Name() string { return c.name }

func (c *Composite) Observe(liquor biokin.ComponentVector) {
	sum := 0.0
	for _, i := range c.indices {
		if i >= 0 && i < len(liquor) {
			sum += liquor[i]
		}
	}
	c.total += sum
	c.samples++
}

func (c *Composite) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *Composite) Reset() {
	c.total = 0
	c.samples = 0
}

// Component reports the most recent value of a single component.
type Component struct {
	name  string
	index int
	last  float64
}

func NewComponent(name string, index int) *Component {
	return &Component{name: name, index: index}
}

func (c *Component) Name() string { return c.name }

func (c *Component) Observe(liquor biokin.ComponentVector) {
	if c.index >= 0 && c.index < len(liquor) {
		c.last = liquor[c.index]
	}
}

func (c *Component) Value() float64 { return c.last }

func (c *Component) Reset() { c.last = 0 }
