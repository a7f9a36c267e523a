// Command colorstats prints the color statistics of an image pair and the
// mapping each transfer mode would apply.
package main

import (
	"flag"
	"fmt"
	"os"

	"color-transfer/internal/config"
	"color-transfer/internal/image"
	"color-transfer/internal/transfer"

	"gonum.org/v1/gonum/mat"
)

func main() {
	targetPath := flag.String("target", "", "Path to target image")
	sourcePath := flag.String("source", "", "Path to source image")
	modeName := flag.String("mode", "", "Transfer mode: pca, chol or sym (default: all)")
	epsText := flag.String("eps", "1e-5", "Covariance regularization")
	flag.Parse()

	if *targetPath == "" || *sourcePath == "" {
		fmt.Println("Usage: colorstats -target <path> -source <path> [-mode pca|chol|sym] [-eps 1e-5]")
		os.Exit(1)
	}

	eps, err := config.ParseEpsilon(*epsText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid eps: %v\n", err)
		os.Exit(1)
	}

	modes := transfer.Modes
	if *modeName != "" {
		m, err := transfer.ParseMode(*modeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid mode: %v\n", err)
			os.Exit(1)
		}
		modes = []transfer.Mode{m}
	}

	target, err := image.Load(*targetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load target: %v\n", err)
		os.Exit(1)
	}
	source, err := image.Load(*sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load source: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Target: %dx%d pixels\n", target.Width, target.Height)
	fmt.Printf("Source: %dx%d pixels\n", source.Width, source.Height)
	fmt.Printf("eps: %g\n", eps)

	for i, mode := range modes {
		sol, err := transfer.Analyze(target, source, mode, eps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v: %v\n", mode, err)
			os.Exit(1)
		}

		if i == 0 {
			printStats("Target", sol.Target)
			printStats("Source", sol.Source)
		}

		fmt.Printf("\nMode %v mapping:\n", mode)
		fmt.Printf("  %v\n", mat.Formatted(sol.Mapping.Dense(), mat.Prefix("  "), mat.Squeeze()))
		fmt.Printf("  residual |A·Ct·Aᵗ - Cs| = %.3e\n", sol.Residual())
	}
}

func printStats(label string, s transfer.Stats) {
	fmt.Printf("\n%s mean: R=%.4f G=%.4f B=%.4f\n", label, s.Mean[0], s.Mean[1], s.Mean[2])
	fmt.Printf("%s covariance:\n", label)
	fmt.Printf("  %v\n", mat.Formatted(s.Cov, mat.Prefix("  "), mat.Squeeze()))
}
