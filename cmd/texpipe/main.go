// Command texpipe drives the texture pipeline from the command line:
// import a source image, run mip-chain generation and compression
// against it, and export the result. Mip filter, alpha treatment,
// compression quality and post-process passes can all be tuned from a
// TOML preset file shared between runs.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/poppolopoppo/texturepipeline/generation"
	"github.com/poppolopoppo/texturepipeline/imageformat"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
	"github.com/poppolopoppo/texturepipeline/textureservice"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "convert":
		err = runConvert(os.Args[2:])
	case "cubemap":
		err = runCubemap(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		texcore.LogFatal("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: texpipe <command> [flags]

commands:
  generate   import a source image, generate mips, compress, export a .tpkg
  convert    re-encode a source image between the supported formats
  cubemap    import a long/lat panorama and resample it into a .tpkg cubemap
  watch      regenerate a directory of sources whenever they change`)
}

// Preset mirrors generation.Config's tunable fields for checking into
// version control and reusing across runs.
type Preset struct {
	Filter               string  `toml:"filter"`
	AlphaCutoff          float32 `toml:"alpha_cutoff"`
	AlphaSpreadRatio     float32 `toml:"alpha_spread_ratio"`
	FloodAlpha           bool    `toml:"flood_alpha"`
	DistanceField        bool    `toml:"distance_field"`
	FullMipChain         bool    `toml:"full_mip_chain"`
	PreserveTestCoverage bool    `toml:"preserve_test_coverage"`
	Quality              int     `toml:"quality"`
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	in := fs.String("in", "", "source image path")
	out := fs.String("out", "", "output .tpkg path")
	configPath := fs.String("config", "", "optional TOML preset path")
	tilable := fs.Bool("tilable", false, "treat the source as wrap-addressed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("generate: -in and -out are required")
	}

	svc := textureservice.NewDefaultService()
	registerDefaultCompressions(svc)

	src, err := svc.ImportTextureSource(*in)
	if err != nil {
		return err
	}
	if *tilable {
		props := src.Properties()
		props.Flags |= pixelformat.FlagTilable
		if err := reconstruct(src, props); err != nil {
			return err
		}
	}

	cfg, err := generation.NewWithService(svc, src.Properties())
	if err != nil {
		return err
	}
	if *configPath != "" {
		var preset Preset
		if err := texcore.LoadTOML(*configPath, &preset); err != nil {
			return err
		}
		applyPreset(&cfg, preset)
	}

	defer texcore.BenchmarkScope(fmt.Sprintf("generate %s", *in))()
	res, err := cfg.Generate(src)
	if err != nil {
		return err
	}

	if err := svc.ExportTexture(*out, res); err != nil {
		return err
	}
	texcore.LogInfo("wrote %s: %v %dx%d, %d mips, %d slices", *out, res.Format, res.Dimensions.X, res.Dimensions.Y, res.NumMips, res.NumSlices)
	return nil
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	in := fs.String("in", "", "source image path")
	out := fs.String("out", "", "destination image path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("convert: -in and -out are required")
	}

	svc := textureservice.NewDefaultService()
	src, err := svc.ImportTextureSource(*in)
	if err != nil {
		return err
	}
	if err := svc.ExportTextureSource(*out, src); err != nil {
		return err
	}
	texcore.LogInfo("converted %s -> %s", *in, *out)
	return nil
}

func runCubemap(args []string) error {
	fs := flag.NewFlagSet("cubemap", flag.ExitOnError)
	in := fs.String("in", "", "equirectangular panorama path (.hdr)")
	out := fs.String("out", "", "output .tpkg cubemap path")
	faceSize := fs.Uint("face-size", 512, "cube face resolution")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("cubemap: -in and -out are required")
	}

	r, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", texcore.ErrIOError, *in, err)
	}
	defer r.Close()

	cube, err := imageformat.ImportTextureCubeLongLat(r, imageformat.NewHDR(), uint32(*faceSize))
	if err != nil {
		return err
	}

	svc := textureservice.NewDefaultService()
	registerDefaultCompressions(svc)
	cfg, err := generation.NewWithService(svc, cube.Properties())
	if err != nil {
		return err
	}
	cfg.GenerateFullMipChain2D = true

	res, err := cfg.Generate(cube)
	if err != nil {
		return err
	}
	if err := svc.ExportTexture(*out, res); err != nil {
		return err
	}
	texcore.LogInfo("wrote cubemap %s: %d faces at %dx%d", *out, res.NumSlices, res.Dimensions.X, res.Dimensions.Y)
	return nil
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	dir := fs.String("dir", "", "directory of source images to watch")
	outDir := fs.String("out", "", "directory to write .tpkg outputs to")
	configPath := fs.String("config", "", "optional TOML preset path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *outDir == "" {
		return fmt.Errorf("watch: -dir and -out are required")
	}

	svc := textureservice.NewDefaultService()
	registerDefaultCompressions(svc)

	var preset Preset
	if *configPath != "" {
		if err := texcore.LoadTOML(*configPath, &preset); err != nil {
			return err
		}
	}

	onChange := func(path string) {
		texcore.LogInfo("source changed: %s", path)
		src, err := svc.ImportTextureSource(path)
		if err != nil {
			texcore.LogError("import %s: %v", path, err)
			return
		}
		cfg, err := generation.NewWithService(svc, src.Properties())
		if err != nil {
			texcore.LogError("configure %s: %v", path, err)
			return
		}
		if *configPath != "" {
			applyPreset(&cfg, preset)
		}
		res, err := cfg.Generate(src)
		if err != nil {
			texcore.LogError("generate %s: %v", path, err)
			return
		}
		outPath := outDirPath(*outDir, path)
		if err := svc.ExportTexture(outPath, res); err != nil {
			texcore.LogError("export %s: %v", outPath, err)
			return
		}
		texcore.LogInfo("wrote %s", outPath)
	}

	watcher, err := svc.WatchSource(*dir, onChange)
	if err != nil {
		return err
	}
	defer watcher.Close()

	texcore.LogInfo("watching %s for changes, writing to %s", *dir, *outDir)
	select {}
}

func outDirPath(outDir, sourcePath string) string {
	base := sourcePath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' || base[i] == '\\' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			base = base[:i]
			break
		}
	}
	return outDir + "/" + base + ".tpkg"
}

// registerDefaultCompressions adds block-compressed options for the
// common authoring pairs so BestTextureCompression has more to choose
// from than the always-applicable uncompressed passthroughs.
func registerDefaultCompressions(svc *textureservice.Service) {
	svc.RegisterStandardCompressions(pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	svc.RegisterStandardCompressions(pixelformat.SourceFormatRGBA8, pixelformat.GammaSRGB)
	svc.RegisterStandardCompressions(pixelformat.SourceFormatG8, pixelformat.GammaLinear)
	svc.RegisterStandardCompressions(pixelformat.SourceFormatRG8, pixelformat.GammaLinear)
}

func applyPreset(cfg *generation.Config, preset Preset) {
	if preset.AlphaCutoff != 0 {
		cfg.AlphaCutoff = preset.AlphaCutoff
	}
	if preset.AlphaSpreadRatio != 0 {
		cfg.AlphaSpreadRatio = preset.AlphaSpreadRatio
	}
	if preset.Filter != "" {
		if sel, ok := parseFilter(preset.Filter); ok {
			cfg.MipGeneration = sel
		}
	}
	cfg.FloodMipChainWithAlpha = cfg.FloodMipChainWithAlpha || preset.FloodAlpha
	cfg.GenerateAlphaDistanceField2D = cfg.GenerateAlphaDistanceField2D || preset.DistanceField
	cfg.GenerateFullMipChain2D = cfg.GenerateFullMipChain2D || preset.FullMipChain
	cfg.PreserveAlphaTestCoverage2D = cfg.PreserveAlphaTestCoverage2D || preset.PreserveTestCoverage
	if preset.Quality != 0 {
		cfg.Settings.Quality = preset.Quality
	}
}

func parseFilter(name string) (generation.Selector, bool) {
	switch name {
	case "default":
		return generation.SelectorDefault, true
	case "box":
		return generation.SelectorBox, true
	case "cubicspline":
		return generation.SelectorCubicSpline, true
	case "catmullrom":
		return generation.SelectorCatmullRom, true
	case "mitchell":
		return generation.SelectorMitchell, true
	case "point":
		return generation.SelectorPointSample, true
	case "gaussian3":
		return generation.SelectorGaussianBlur3, true
	case "gaussian5":
		return generation.SelectorGaussianBlur5, true
	case "gaussian7":
		return generation.SelectorGaussianBlur7, true
	case "gaussian9":
		return generation.SelectorGaussianBlur9, true
	case "sharpen1":
		return generation.SelectorContrastAdaptiveSharpen1, true
	case "sharpen9":
		return generation.SelectorContrastAdaptiveSharpen9, true
	default:
		return generation.SelectorDefault, false
	}
}

// reconstruct rebuilds src in place with updated properties, copying
// the existing bytes across since only flags changed, not layout.
func reconstruct(src *texturesource.Source, props texturesource.Properties) error {
	reader := src.ReaderScope()
	buf := make([]byte, len(reader.Bytes()))
	copy(buf, reader.Bytes())
	reader.Close()

	rebuilt, err := texturesource.Construct(props, buf)
	if err != nil {
		return err
	}
	*src = *rebuilt
	return nil
}
