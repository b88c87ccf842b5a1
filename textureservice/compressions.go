package textureservice

import "github.com/poppolopoppo/texturepipeline/compression"
import "github.com/poppolopoppo/texturepipeline/pixelformat"

// RegisterStandardCompressions registers the block compressors usable
// for one (sourceFormat, gamma) pair; it adds no passthrough. It
// registers every block-compression variant that accepts the pair
// (BC4/BC5 only make sense for single/dual channel sources, so callers
// asking for an RGBA pair only get BC1/BC3 and the two ASTC block
// sizes). BestTextureCompression then has a real choice to make
// between them instead of always falling back to the passthrough.
func (s *Service) RegisterStandardCompressions(sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) {
	components := pixelformat.Components(sourceFormat)

	s.RegisterTextureCompression(compression.NewASTC4x4(sourceFormat, gamma))
	s.RegisterTextureCompression(compression.NewASTC8x8(sourceFormat, gamma))

	switch components {
	case 1:
		s.RegisterTextureCompression(compression.NewBC4(sourceFormat, gamma))
	case 2:
		s.RegisterTextureCompression(compression.NewBC5(sourceFormat, gamma))
	default:
		s.RegisterTextureCompression(compression.NewBC1(sourceFormat, gamma))
		s.RegisterTextureCompression(compression.NewBC3(sourceFormat, gamma))
	}
}
