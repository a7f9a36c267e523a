// Package main provides the entry point for the color-transfer command.
//
// color-transfer re-maps the colors of a target image so that their mean and
// covariance match a source image:
//
//	color-transfer -target_image target.png -source_image source.png -mode sym
package main

import (
	"errors"
	"flag"
	"fmt"
	stdimage "image"
	"log"
	"os"
	"time"

	"color-transfer/internal/config"
	"color-transfer/internal/image"
	"color-transfer/internal/mask"
	"color-transfer/internal/transfer"
	"color-transfer/internal/version"
)

const appName = "color-transfer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	prefs := config.Load()
	cfg, err := config.Parse(os.Args[1:], prefs)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Println(version.String(appName))
		return
	}

	if cfg.SaveDefaults {
		if err := cfg.SavePrefs(prefs); err != nil {
			log.Printf("Failed to save preferences to %s: %v", prefs.Path(), err)
		} else {
			log.Printf("Saved defaults (mode=%v eps=%g) to %s", cfg.Mode, cfg.Eps, prefs.Path())
		}
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one transfer. Nothing is written unless the whole transfer
// succeeds.
func run(cfg config.Config) error {
	start := time.Now()
	log.Printf("Starting %s v%s (mode=%v eps=%g)", appName, version.Version, cfg.Mode, cfg.Eps)

	target, err := image.Load(cfg.TargetImage)
	if err != nil {
		return fmt.Errorf("target image: %w", err)
	}
	source, err := image.Load(cfg.SourceImage)
	if err != nil {
		return fmt.Errorf("source image: %w", err)
	}
	log.Printf("Loaded target %dx%d, source %dx%d", target.Width, target.Height, source.Width, source.Height)

	var output *image.Image
	if cfg.Masked() {
		output, err = runMasked(cfg, target, source)
	} else {
		output, err = transfer.MatchColor(target, source, cfg.Mode, cfg.Eps)
	}
	if err != nil {
		return err
	}

	if err := image.Save(cfg.OutputImage, output); err != nil {
		return err
	}
	log.Printf("Wrote %s (%.2fs)", cfg.OutputImage, time.Since(start).Seconds())

	if cfg.PreviewImage != "" {
		if err := image.Save(cfg.PreviewImage, image.SideBySide(target, source, output)); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		log.Printf("Wrote preview %s", cfg.PreviewImage)
	}
	return nil
}

// runMasked performs per-region transfer using the configured color codes.
func runMasked(cfg config.Config, target, source *image.Image) (*image.Image, error) {
	targetMask, err := image.LoadRaw(cfg.TargetMaskImage)
	if err != nil {
		return nil, fmt.Errorf("target mask: %w", err)
	}
	sourceMask, err := image.LoadRaw(cfg.SourceMaskImage)
	if err != nil {
		return nil, fmt.Errorf("source mask: %w", err)
	}

	// mask.Extract already warns about each unrecognized color.
	regions, _ := buildRegions(cfg.ColorCodes, targetMask, sourceMask)
	for _, r := range regions {
		log.Printf("Region %s: %d target pixels, %d source pixels", r.Name, r.Target.Count(), r.Source.Count())
	}
	return transfer.MatchRegions(target, source, regions, cfg.Mode, cfg.Eps)
}

func buildRegions(codes []string, targetMask, sourceMask stdimage.Image) (regions []transfer.Region, skipped []string) {
	for _, code := range codes {
		tm, ok := mask.Extract(targetMask, code)
		if !ok {
			skipped = append(skipped, code)
			continue
		}
		sm, _ := mask.Extract(sourceMask, code)
		regions = append(regions, transfer.Region{Name: code, Target: tm, Source: sm})
	}
	return regions, skipped
}
