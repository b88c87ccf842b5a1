package pixelformat

// Rgba32F is the common-currency floating-point color value every
// decode kernel produces and every encode kernel consumes: values are
// understood to sit in the format's own gamma space unless otherwise
// converted.
type Rgba32F struct {
	R, G, B, A float32
}

// Rgba32I and Rgba32U are the integer analogues, used by depth/stencil
// or integer-sampled aspects. The pipeline's supported formats are all
// float-decodable, so these exist to complete the C1 contract rather
// than to carry live data.
type Rgba32I struct {
	R, G, B, A int32
}

type Rgba32U struct {
	R, G, B, A uint32
}
