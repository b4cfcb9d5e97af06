package geometry

import "fmt"

// Attribute places one named vertex attribute inside an interleaved vertex.
// Stride and Offset are counted in float32 components.
type Attribute struct {
	Name       string
	Components int
	Stride     int
	Offset     int
}

// Layout describes the attributes of an interleaved vertex array.
type Layout struct {
	Attributes []Attribute
}

// Stride returns the number of floats per vertex, or 0 for an empty layout.
func (l Layout) Stride() int {
	if len(l.Attributes) == 0 {
		return 0
	}
	return l.Attributes[0].Stride
}

// LayoutError reports a layout or vertex array that cannot be uploaded.
type LayoutError struct {
	Attribute string
	Reason    string
}

func (e *LayoutError) Error() string {
	if e.Attribute == "" {
		return "invalid vertex layout: " + e.Reason
	}
	return fmt.Sprintf("invalid vertex layout: attribute %q: %s", e.Attribute, e.Reason)
}

// Validate checks that every attribute fits inside one shared stride.
func (l Layout) Validate() error {
	if len(l.Attributes) == 0 {
		return &LayoutError{Reason: "no attributes"}
	}
	stride := l.Stride()
	seen := make(map[string]bool, len(l.Attributes))
	for _, a := range l.Attributes {
		switch {
		case a.Name == "":
			return &LayoutError{Reason: "attribute without a name"}
		case seen[a.Name]:
			return &LayoutError{Attribute: a.Name, Reason: "declared twice"}
		case a.Components < 1 || a.Components > 4:
			return &LayoutError{Attribute: a.Name, Reason: fmt.Sprintf("component count %d outside 1..4", a.Components)}
		case a.Stride != stride:
			return &LayoutError{Attribute: a.Name, Reason: fmt.Sprintf("stride %d differs from %d", a.Stride, stride)}
		case a.Offset < 0 || a.Offset+a.Components > stride:
			return &LayoutError{Attribute: a.Name, Reason: fmt.Sprintf("offset %d with %d components exceeds stride %d", a.Offset, a.Components, stride)}
		}
		seen[a.Name] = true
	}
	return nil
}

// VertexCount returns how many whole vertices floats holds under l.
func (l Layout) VertexCount(floats int) (int, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	stride := l.Stride()
	if floats == 0 {
		return 0, &LayoutError{Reason: "no vertex data"}
	}
	if floats%stride != 0 {
		return 0, &LayoutError{Reason: fmt.Sprintf("%d floats is not a multiple of stride %d", floats, stride)}
	}
	return floats / stride, nil
}

func validateIndices(indices []uint16, vertexCount int) error {
	if len(indices) == 0 {
		return &LayoutError{Reason: "empty element buffer"}
	}
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return &LayoutError{Reason: fmt.Sprintf("index %d at %d out of range for %d vertices", idx, i, vertexCount)}
		}
	}
	return nil
}
