package imageformat

import (
	"io"
	"math"

	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// ImportTextureCubeLongLat imports an equirectangular (longitude by
// latitude) panorama through codec, then resamples its top mip into
// the 6 faces of a faceSize cubemap by, for every face texel,
// reconstructing the corresponding view direction and bilinearly
// sampling the panorama at that direction's longitude/latitude. Only
// the top mip is produced; callers run the usual mip-chain generation
// afterward the same as any other cube source.
func ImportTextureCubeLongLat(r io.Reader, codec Format, faceSize uint32) (*texturesource.Source, error) {
	longlat, err := codec.Import(r)
	if err != nil {
		return nil, err
	}
	srcProps := longlat.Properties()

	srcReader := longlat.ReaderScope()
	defer srcReader.Close()
	srcTop, err := longlat.MipData(srcReader.Bytes(), 0, 1, 0)
	if err != nil {
		return nil, err
	}
	// Longitude wraps around the seam at +/-pi, so the panorama is
	// addressed as tilable; the view wraps every axis, latitude included.
	srcView := imageview.New(srcTop, srcProps.Dimensions, srcProps.SourceFormat, true)

	outProps := texturesource.New2DArray(pixelformat.Dims3{X: faceSize, Y: faceSize}, 6, srcProps.SourceFormat, srcProps.Gamma, srcProps.Flags|pixelformat.FlagLongLatCubemap)
	outProps.ImageView = pixelformat.ViewCube
	out, err := texturesource.Construct(outProps, nil)
	if err != nil {
		return nil, err
	}

	writer := out.WriterScope()
	defer writer.Close()
	dstBuf := writer.Bytes()

	for face := uint32(0); face < 6; face++ {
		faceBytes, err := out.SliceData(dstBuf, face)
		if err != nil {
			return nil, err
		}
		faceView := imageview.New(faceBytes, outProps.Dimensions, outProps.SourceFormat, false)

		for y := uint32(0); y < faceSize; y++ {
			v := (float32(y) + 0.5) / float32(faceSize)
			for x := uint32(0); x < faceSize; x++ {
				u := (float32(x) + 0.5) / float32(faceSize)
				dx, dy, dz := faceDirection(int(face), u, v)
				lu, lv := directionToLongLat(dx, dy, dz)
				c, err := srcView.LoadUVW([3]float32{lu*2 - 1, lv*2 - 1, 0}, imageview.FilterLinear)
				if err != nil {
					return nil, err
				}
				faceView.Store(imageview.Coord{X: int(x), Y: int(y)}, c)
			}
		}
	}
	return out, nil
}

// faceDirection returns the unnormalized view direction for texel
// (u,v) in [0,1]^2 on cube face, following the standard +X,-X,+Y,-Y,
// +Z,-Z face ordering and basis.
func faceDirection(face int, u, v float32) (x, y, z float32) {
	a := u*2 - 1
	b := v*2 - 1
	switch face {
	case 0: // +X
		return 1, -b, -a
	case 1: // -X
		return -1, -b, a
	case 2: // +Y
		return a, 1, b
	case 3: // -Y
		return a, -1, -b
	case 4: // +Z
		return a, -b, 1
	default: // -Z
		return -a, -b, -1
	}
}

func directionToLongLat(x, y, z float32) (u, v float32) {
	length := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if length < 1e-8 {
		return 0.5, 0.5
	}
	ny := y / length
	phi := math.Atan2(float64(x), float64(-z))
	theta := math.Asin(clampF64(float64(ny), -1, 1))
	u = float32(phi/(2*math.Pi) + 0.5)
	v = float32(0.5 - theta/math.Pi)
	return u, v
}

func clampF64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
