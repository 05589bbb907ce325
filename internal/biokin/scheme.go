package biokin

import "fmt"

// Scheme selects the explicit integration scheme. It is resolved once at
// configuration time rather than dispatched by name per step.
type Scheme uint8

const (
	SchemeEuler Scheme = iota
	SchemeRK4
)

func (s Scheme) String() string {
	switch s {
	case SchemeEuler:
		return "euler"
	case SchemeRK4:
		return "rk4"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "euler":
		return SchemeEuler, nil
	case "rk4":
		return SchemeRK4, nil
	default:
		return 0, fmt.Errorf("unknown integration scheme %q", name)
	}
}
