package probe

import "fmt"

// Probe is the self-test fixture baked into every sketch module image. A
// fresh probe always reads 42, and doubling is the only mutation, so the host
// can tell a sane module memory from a corrupted one with two calls.
type Probe struct {
	value int
}

func NewProbe() *Probe {
	return &Probe{value: 42}
}

// Double multiplies the held value by two.
func (p *Probe) Double() {
	p.value *= 2
}

// Value returns the currently held value.
func (p *Probe) Value() int {
	return p.value
}

// Check runs the pre-flight sequence the runner executes before driving a
// module: construct, read, double, read.
func Check() error {
	p := NewProbe()
	if v := p.Value(); v != 42 {
		return fmt.Errorf("fresh probe read %d, want 42", v)
	}
	p.Double()
	if v := p.Value(); v != 84 {
		return fmt.Errorf("doubled probe read %d, want 84", v)
	}
	return nil
}
