package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/models"
)

func newRenderCmd() *cobra.Command {
	var (
		outDir  string
		formats []string
		opts    canvas.RenderOptions
	)

	cmd := &cobra.Command{
		Use:   "render <canvas.json>",
		Short: "Render a canvas JSON file to SVG or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := readCanvas(args[0])
			if err != nil {
				return err
			}

			report := canvas.BuildQualityReport(c, canvas.QualityThreshold)
			cmd.Printf("%s: quality %.2f (%d/%d sections)\n", c.Title, report.Score, report.Filled, report.Total)
			if report.BelowThreshold {
				cmd.Printf("warning: quality below threshold, missing %s\n", strings.Join(report.MissingSections, ", "))
			}

			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			for _, f := range formats {
				format := models.VisualFormat(strings.ToLower(f))
				asset, err := canvas.Export(c, format, opts)
				if err != nil {
					return err
				}
				data := []byte(asset.Content)
				if format == models.FormatPDF {
					if data, err = base64.StdEncoding.DecodeString(asset.Content); err != nil {
						return fmt.Errorf("failed to decode pdf: %w", err)
					}
				}
				path := filepath.Join(outDir, base+"."+string(format))
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				cmd.Printf("wrote %s (%d bytes)\n", path, len(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"svg"}, "formats to write (svg, pdf)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "SVG width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "SVG height in pixels")
	return cmd
}

func readCanvas(path string) (*models.Canvas, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read canvas: %w", err)
	}
	c := &models.Canvas{}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("failed to parse canvas: %w", err)
	}
	if !c.Type.Valid() {
		return nil, models.ErrUnsupportedCanvasType
	}
	if c.Title == "" {
		c.Title = "Untitled"
	}
	return c, nil
}
