package wide

// Format identifies the pixel layout of a destination or source stream.
type Format uint8

const (
	// PRGB32 is premultiplied RGBA, 4 bytes per pixel in R, G, B, A order.
	PRGB32 Format = iota
	// A8 is an alpha-only stream, 1 byte per pixel.
	A8
)

// BytesPerPixel returns the packed size of one pixel.
func (f Format) BytesPerPixel() int {
	if f == A8 {
		return 1
	}
	return 4
}

// HasColor reports whether the format carries color channels.
func (f Format) HasColor() bool { return f == PRGB32 }

func (f Format) String() string {
	switch f {
	case PRGB32:
		return "PRGB32"
	case A8:
		return "A8"
	default:
		return "Format(?)"
	}
}
