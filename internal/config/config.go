// Package config builds the immutable run configuration for the color
// transfer tool from command-line flags and saved preferences.
package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"color-transfer/internal/mask"
	"color-transfer/internal/transfer"
)

// DefaultOutput is the output path used when -output_image is not given.
const DefaultOutput = "output.png"

var (
	// ErrMaskAsymmetry is returned when only one of the two mask images is given.
	ErrMaskAsymmetry = errors.New("target and source mask images must be given together")

	// ErrMissingImage is returned when a required image path is empty.
	ErrMissingImage = errors.New("missing required image")
)

// Config is the complete configuration for one color transfer run.
// It is built once by Parse and passed by value.
type Config struct {
	TargetImage     string
	SourceImage     string
	TargetMaskImage string
	SourceMaskImage string
	OutputImage     string
	PreviewImage    string

	Mode       transfer.Mode
	Eps        float64
	ColorCodes []string

	SaveDefaults bool
	ShowVersion  bool
}

// Defaults returns a Config carrying the built-in defaults, overridden by
// any mode and eps stored in prefs. prefs may be nil.
func Defaults(prefs *Prefs) Config {
	cfg := Config{
		OutputImage: DefaultOutput,
		Mode:        transfer.ModePCA,
		Eps:         transfer.DefaultEpsilon,
		ColorCodes:  mask.Names(),
	}
	if prefs == nil {
		return cfg
	}
	if m, err := transfer.ParseMode(prefs.StringWithFallback(KeyMode, "")); err == nil {
		cfg.Mode = m
	}
	if eps := prefs.FloatWithFallback(KeyEps, 0); eps > 0 && !math.IsInf(eps, 0) {
		cfg.Eps = eps
	}
	return cfg
}

// Masked reports whether region masks were supplied.
func (c Config) Masked() bool {
	return c.TargetMaskImage != "" && c.SourceMaskImage != ""
}

// Validate checks the constraints that must hold before any image is read.
func (c Config) Validate() error {
	if c.TargetImage == "" {
		return fmt.Errorf("%w: -target_image", ErrMissingImage)
	}
	if c.SourceImage == "" {
		return fmt.Errorf("%w: -source_image", ErrMissingImage)
	}
	if (c.TargetMaskImage == "") != (c.SourceMaskImage == "") {
		if c.TargetMaskImage == "" {
			return fmt.Errorf("%w: target image mask was not provided", ErrMaskAsymmetry)
		}
		return fmt.Errorf("%w: source image mask was not provided", ErrMaskAsymmetry)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %v", transfer.ErrInvalidMode, c.Mode)
	}
	if !(c.Eps > 0) || math.IsInf(c.Eps, 0) {
		return fmt.Errorf("%w: got %g", transfer.ErrInvalidEpsilon, c.Eps)
	}
	if c.Masked() && len(c.ColorCodes) == 0 {
		return errors.New("no color codes given for masked transfer")
	}
	return nil
}

// Parse builds a Config from command-line arguments (without the program
// name). Flags override defaults from prefs. The result is validated unless
// -version was requested.
func Parse(args []string, prefs *Prefs) (Config, error) {
	cfg := Defaults(prefs)

	fs := flag.NewFlagSet("color-transfer", flag.ContinueOnError)
	fs.StringVar(&cfg.TargetImage, "target_image", "", "The image you are transferring color to. Ex: target.png")
	fs.StringVar(&cfg.SourceImage, "source_image", "", "The image you are transferring color from. Ex: source.png")
	fs.StringVar(&cfg.TargetMaskImage, "target_mask_image", "", "The mask image for the target image. Ex: target_mask.png")
	fs.StringVar(&cfg.SourceMaskImage, "source_mask_image", "", "The mask image for the source image. Ex: source_mask.png")
	fs.StringVar(&cfg.OutputImage, "output_image", cfg.OutputImage, "The name of your output image. Ex: output.png")
	fs.StringVar(&cfg.PreviewImage, "preview", "", "Optional path for a target | source | output preview strip")
	fs.Var(&cfg.Mode, "mode", "The color transfer mode: pca, chol or sym")
	fs.Func("eps", fmt.Sprintf("Covariance regularization in normal or scientific notation (default %g)", cfg.Eps), func(s string) error {
		v, err := ParseEpsilon(s)
		if err != nil {
			return err
		}
		cfg.Eps = v
		return nil
	})
	fs.Func("color_codes", "Comma-separated mask colors: "+strings.Join(mask.Names(), ","), func(s string) error {
		cfg.ColorCodes = ParseColorCodes(s)
		return nil
	})
	fs.BoolVar(&cfg.SaveDefaults, "save_defaults", false, "Store -mode and -eps as defaults in "+prefsPathFor(prefs))
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if cfg.ShowVersion {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEpsilon parses a positive float in decimal or scientific notation.
func ParseEpsilon(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", transfer.ErrInvalidEpsilon, s)
	}
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: got %g", transfer.ErrInvalidEpsilon, v)
	}
	return v, nil
}

// ParseColorCodes splits a comma-separated list of color names, dropping
// empty entries.
func ParseColorCodes(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// SavePrefs stores the config's mode and eps as defaults.
func (c Config) SavePrefs(prefs *Prefs) error {
	prefs.SetString(KeyMode, c.Mode.String())
	prefs.SetFloat(KeyEps, c.Eps)
	return prefs.Save()
}

func prefsPathFor(prefs *Prefs) string {
	if prefs == nil {
		return DefaultPrefsPath()
	}
	return prefs.Path()
}
