package resize

import "fmt"

// Selector mirrors the mip-generation selector carried by a generation
// config: either a plain resampling filter choice, or a request for a
// resample-then-post-process pass (Gaussian blur at a given window
// size, or Contrast-Adaptive Sharpening at a given strength).
type Selector int

const (
	SelectorDefault Selector = iota
	SelectorBox
	SelectorCubicSpline
	SelectorCatmullRom
	SelectorMitchell
	SelectorPointSample
	SelectorGaussianBlur3
	SelectorGaussianBlur5
	SelectorGaussianBlur7
	SelectorGaussianBlur9
	SelectorContrastAdaptiveSharpen1
	SelectorContrastAdaptiveSharpen2
	SelectorContrastAdaptiveSharpen3
	SelectorContrastAdaptiveSharpen4
	SelectorContrastAdaptiveSharpen5
	SelectorContrastAdaptiveSharpen6
	SelectorContrastAdaptiveSharpen7
	SelectorContrastAdaptiveSharpen8
	SelectorContrastAdaptiveSharpen9
)

func (s Selector) String() string {
	switch s {
	case SelectorDefault:
		return "Default"
	case SelectorBox:
		return "Box"
	case SelectorCubicSpline:
		return "CubicSpline"
	case SelectorCatmullRom:
		return "CatmullRom"
	case SelectorMitchell:
		return "Mitchell"
	case SelectorPointSample:
		return "PointSample"
	case SelectorGaussianBlur3, SelectorGaussianBlur5, SelectorGaussianBlur7, SelectorGaussianBlur9:
		return fmt.Sprintf("GaussianBlur%d", s.GaussianWindowSize())
	default:
		return fmt.Sprintf("ContrastAdaptiveSharpen%d", s.SharpenLevel())
	}
}

// GaussianWindowSize returns the separable kernel width for a
// GaussianBlurK selector (3, 5, 7 or 9); zero if s is not a blur
// selector.
func (s Selector) GaussianWindowSize() int {
	switch s {
	case SelectorGaussianBlur3:
		return 3
	case SelectorGaussianBlur5:
		return 5
	case SelectorGaussianBlur7:
		return 7
	case SelectorGaussianBlur9:
		return 9
	default:
		return 0
	}
}

// SharpenLevel returns 1..9 for a ContrastAdaptiveSharpenN selector;
// zero if s is not a sharpen selector.
func (s Selector) SharpenLevel() int {
	if s >= SelectorContrastAdaptiveSharpen1 && s <= SelectorContrastAdaptiveSharpen9 {
		return int(s-SelectorContrastAdaptiveSharpen1) + 1
	}
	return 0
}

// IsGaussianBlur reports whether s selects a Gaussian blur post-pass.
func (s Selector) IsGaussianBlur() bool { return s.GaussianWindowSize() > 0 }

// IsContrastAdaptiveSharpen reports whether s selects a CAS post-pass.
func (s Selector) IsContrastAdaptiveSharpen() bool { return s.SharpenLevel() > 0 }
