package shared

// Labeled is implemented by enumerations that carry display metadata.
// Each variant knows its canonical value and its human readable label.
type Labeled interface {
	String() string
	Label() string
}

// Option is a value/label pair used to render enumeration choices
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsOf builds the option list for a set of labeled values
func OptionsOf[T Labeled](values ...T) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v.String(), Label: v.Label()})
	}
	return opts
}
