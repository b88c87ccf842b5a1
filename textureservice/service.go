// Package textureservice implements the texture service (C8): the
// central registry tying together the image-format codecs (C6) and
// compression implementations (C7), and the import/export entry points
// built on top of them.
package textureservice

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/poppolopoppo/texturepipeline/compression"
	"github.com/poppolopoppo/texturepipeline/imageformat"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

type formatEntry struct {
	id     uuid.UUID
	format imageformat.Format
}

type compressionEntry struct {
	id   uuid.UUID
	impl compression.Compression
}

// Service is the registry every pipeline entry point is built on: a
// mutex-guarded, insertion-ordered list of image-format codecs and a
// matching list of compression implementations. Registration returns a
// handle so callers can deregister a specific entry later without
// disturbing the rest of the registry's order.
type Service struct {
	mu sync.RWMutex

	imageFormats        []formatEntry
	textureCompressions []compressionEntry

	fs texcore.FileSystem
}

// NewService builds an empty registry backed by fs for file I/O.
func NewService(fs texcore.FileSystem) *Service {
	return &Service{fs: fs}
}

// NewDefaultService builds a Service pre-registered with every
// built-in image-format codec (PNG, BMP, TGA, JPG, HDR) and the
// builtin passthrough compressions, backed by the host OS filesystem.
func NewDefaultService() *Service {
	svc := NewService(texcore.OSFileSystem{})
	svc.RegisterImageFormat(imageformat.NewPNG())
	svc.RegisterImageFormat(imageformat.NewBMP())
	svc.RegisterImageFormat(imageformat.NewTGA())
	svc.RegisterImageFormat(imageformat.NewJPG())
	svc.RegisterImageFormat(imageformat.NewHDR())
	for _, p := range compression.BuiltinPassthroughs() {
		svc.RegisterTextureCompression(p)
	}
	return svc
}

// RegisterImageFormat adds f to the registry and returns a handle that
// can be passed to DeregisterImageFormat.
func (s *Service) RegisterImageFormat(f imageformat.Format) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.imageFormats = append(s.imageFormats, formatEntry{id, f})
	return id
}

// DeregisterImageFormat removes the entry registered under id, if any.
func (s *Service) DeregisterImageFormat(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.imageFormats {
		if e.id == id {
			s.imageFormats = append(s.imageFormats[:i], s.imageFormats[i+1:]...)
			return
		}
	}
}

// RegisterTextureCompression adds c to the registry and returns a
// handle that can be passed to DeregisterTextureCompression.
func (s *Service) RegisterTextureCompression(c compression.Compression) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.textureCompressions = append(s.textureCompressions, compressionEntry{id, c})
	return id
}

// DeregisterTextureCompression removes the entry registered under id,
// if any.
func (s *Service) DeregisterTextureCompression(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.textureCompressions {
		if e.id == id {
			s.textureCompressions = append(s.textureCompressions[:i], s.textureCompressions[i+1:]...)
			return
		}
	}
}

// AllImageFormats returns every registered image-format codec, in
// registration order.
func (s *Service) AllImageFormats() []imageformat.Format {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]imageformat.Format, len(s.imageFormats))
	for i, e := range s.imageFormats {
		out[i] = e.format
	}
	return out
}

// AllTextureCompressions returns every registered compression
// implementation, in registration order.
func (s *Service) AllTextureCompressions() []compression.Compression {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]compression.Compression, len(s.textureCompressions))
	for i, e := range s.textureCompressions {
		out[i] = e.impl
	}
	return out
}

// ImageFormatByExtension returns the first registered codec whose Kind
// matches the file extension ext (with or without a leading dot).
func (s *Service) ImageFormatByExtension(ext string) (imageformat.Format, error) {
	kind := pixelformat.ParseImageFormat(ext)
	if kind == pixelformat.ImageFormatUnknown {
		return nil, fmt.Errorf("%w: unrecognized image extension %q", texcore.ErrUnsupportedFormat, ext)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.imageFormats {
		if e.format.Kind() == kind {
			return e.format, nil
		}
	}
	return nil, fmt.Errorf("%w: no codec registered for %q", texcore.ErrUnsupportedFormat, ext)
}

// ImageFormatFor returns the first registered codec whose whitelist
// covers props' source format, preferring whichever codec was
// registered first (NewDefaultService registers lossless codecs ahead
// of lossy ones).
func (s *Service) ImageFormatFor(props texturesource.Properties) (imageformat.Format, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.imageFormats {
		if e.format.Supports(props.SourceFormat) {
			return e.format, nil
		}
	}
	return nil, fmt.Errorf("%w: no codec supports source format %v", texcore.ErrUnsupportedFormat, props.SourceFormat)
}

// TextureCompressionByFormat returns the first registered compression
// whose output Format matches format.
func (s *Service) TextureCompressionByFormat(format pixelformat.Format) (compression.Compression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.textureCompressions {
		if e.impl.Format() == format {
			return e.impl, nil
		}
	}
	return nil, fmt.Errorf("%w: no compression registered for %v", texcore.ErrUnsupportedFormat, format)
}

// BestTextureCompression returns the registered compression that
// supports props and settings with the smallest output
// bits-per-pixel, or nil if none support it. This is the method
// generation.Config.NewWithService needs to pick a compression
// automatically from a source's properties alone.
func (s *Service) BestTextureCompression(props texturesource.Properties, settings compression.Settings) compression.Compression {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best compression.Compression
	bestBits := -1
	for _, e := range s.textureCompressions {
		if !e.impl.Supports(props, settings) {
			continue
		}
		bits := pixelformat.BitsPerPixel(e.impl.Format(), pixelformat.AspectColor)
		if best == nil || bits < bestBits {
			best = e.impl
			bestBits = bits
		}
	}
	return best
}
