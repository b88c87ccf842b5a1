package textureservice

import (
	"fmt"
	"path/filepath"

	"github.com/poppolopoppo/texturepipeline/compression"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// ImportTextureSource opens path through fs, resolves a codec from its
// extension, and decodes it into a Source ready for generation.
func (s *Service) ImportTextureSource(path string) (*texturesource.Source, error) {
	codec, err := s.ImageFormatByExtension(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	r, err := s.fs.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	src, err := codec.Import(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	src.Bulk().SetSourceFile(path)
	return src, nil
}

// ExportTextureSource resolves a codec from path's extension and
// encodes src to it, truncating any existing file.
func (s *Service) ExportTextureSource(path string, src *texturesource.Source) error {
	codec, err := s.ImageFormatByExtension(filepath.Ext(path))
	if err != nil {
		return err
	}
	w, err := s.fs.OpenWrite(path, true)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := codec.Export(w, src); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}
	return nil
}

// ExportTexture writes a compiled compression.Resource to path as a
// self-contained container: a small fixed header describing the
// resource's shape, followed by the compressed bulk bytes verbatim.
// No third-party GPU texture container format fits a generic,
// view-kind-agnostic compressed resource, so the container mirrors
// the resource's own fields directly instead.
func (s *Service) ExportTexture(path string, res *compression.Resource) error {
	w, err := s.fs.OpenWrite(path, true)
	if err != nil {
		return err
	}
	defer w.Close()
	return WriteResource(w, res)
}

// ImportTexture reads back a container written by ExportTexture.
func (s *Service) ImportTexture(path string) (*compression.Resource, error) {
	r, err := s.fs.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	res, err := ReadResource(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return res, nil
}
