package types

// NotAvailable is how a missing Field is rendered in tabular output.
const NotAvailable = "N/A"

// Field is an optional text value extracted from a page. A missing field is
// distinct from an empty one and is never parsed as a number.
type Field struct {
	value string
	ok    bool
}

// Missing is the zero Field.
var Missing = Field{}

// Present returns a Field holding s.
func Present(s string) Field {
	return Field{value: s, ok: true}
}

// ParseField reads a tabular cell back into a Field. Only the "N/A" marker
// becomes Missing; any other cell, including an empty one, is present.
func ParseField(cell string) Field {
	if cell == NotAvailable {
		return Missing
	}
	return Present(cell)
}

// Value returns the text and whether it is present.
func (f Field) Value() (string, bool) {
	return f.value, f.ok
}

// IsMissing reports whether the field has no value.
func (f Field) IsMissing() bool { return !f.ok }

// String renders the field for tabular output.
func (f Field) String() string {
	if !f.ok {
		return NotAvailable
	}
	return f.value
}

// Any returns the value for document sinks, nil when missing.
func (f Field) Any() any {
	if !f.ok {
		return nil
	}
	return f.value
}
