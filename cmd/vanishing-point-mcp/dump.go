package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/vanishing-point-mcp/internal/config"
	"github.com/ironsheep/vanishing-point-mcp/internal/imaging"
	"github.com/ironsheep/vanishing-point-mcp/internal/vanishing"
)

// dump runs the pipeline on one image and writes every intermediate
// image into dir as numbered PNGs.
func dump(cfg *config.Config, imagePath, dir string) (*vanishing.Summary, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, _, err := imaging.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	var opts []vanishing.Option
	if cfg.Debug() {
		opts = append(opts, vanishing.WithDebugf(log.Printf))
	}
	p := vanishing.New(cfg.Pipeline, opts...)

	report, err := p.Run(img)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dump directory: %w", err)
	}

	stages := []struct {
		name string
		img  image.Image
	}{
		{"01_field_mask", report.Field.Mask},
		{"02_masked", report.Prefilter.Masked},
		{"03_green", report.Prefilter.Green},
		{"04_white", report.Prefilter.White},
		{"05_gray", report.Prefilter.Gray},
		{"06_edges", report.Prefilter.Edges},
		{"07_overlay", p.Overlay(img, report)},
	}
	for _, st := range stages {
		path := filepath.Join(dir, st.name+".png")
		if err := imgio.Save(path, st.img, imgio.PNGEncoder()); err != nil {
			return nil, fmt.Errorf("save %s: %w", st.name, err)
		}
	}

	summary := report.Summary()
	return &summary, nil
}
