package table

// MissingText is the textual form of a missing value when it has to be
// rendered inside another string.
const MissingText = "nan"

// Value is a single cell. The zero Value is missing.
type Value struct {
	text    string
	present bool
}

// Missing is the missing cell.
var Missing = Value{}

// Str wraps s as a present value. The empty string is present.
func Str(s string) Value {
	return Value{text: s, present: true}
}

// Get returns the contained string and whether the value is present.
func (v Value) Get() (string, bool) {
	return v.text, v.present
}

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool {
	return !v.present
}

// String renders the value, using MissingText for missing cells.
func (v Value) String() string {
	if !v.present {
		return MissingText
	}
	return v.text
}

// Equal reports whether v is present and holds exactly s.
func (v Value) Equal(s string) bool {
	return v.present && v.text == s
}

// Strs converts a list of strings into present values.
func Strs(values ...string) []Value {
	out := make([]Value, len(values))
	for i, s := range values {
		out[i] = Str(s)
	}
	return out
}

// MissingColumn returns n missing cells.
func MissingColumn(n int) []Value {
	return make([]Value, n)
}
