package component

// Target is an output format.
type Target int

// Output targets.
const (
	HTML Target = iota
	LaTeX
)

// Ext returns the template file extension for the target, without the dot.
func (t Target) Ext() string {
	if t == LaTeX {
		return "tex"
	}
	return "html"
}

// String returns the target name.
func (t Target) String() string {
	if t == LaTeX {
		return "latex"
	}
	return "html"
}
