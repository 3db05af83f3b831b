package graphics

import "fmt"

// Float32Size is the byte size of one float attribute component
const Float32Size = 4

// AttributeLayout maps buffer bytes to one float vertex attribute
type AttributeLayout struct {
	Location   uint32
	Components int32
	Stride     int32
	Offset     int
	Normalized bool
}

// PositionLayout is the tightly packed x,y,z float layout read at location 0
func PositionLayout() AttributeLayout {
	return AttributeLayout{
		Location:   0,
		Components: 3,
		Stride:     3 * Float32Size,
		Offset:     0,
	}
}

// Validate rejects layouts whose attribute would overrun its own stride
func (l AttributeLayout) Validate() error {
	if l.Components < 1 || l.Components > 4 {
		return fmt.Errorf("%w: %d components", ErrInvalidLayout, l.Components)
	}
	if l.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidLayout, l.Offset)
	}
	if int(l.Stride) < l.Offset+int(l.Components)*Float32Size {
		return fmt.Errorf("%w: stride %d too small for %d floats at offset %d",
			ErrInvalidLayout, l.Stride, l.Components, l.Offset)
	}
	return nil
}
