package cmd

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/kpumuk/kiqheat/internal/chart"
	"github.com/kpumuk/kiqheat/internal/dataset"
	"github.com/kpumuk/kiqheat/internal/export"
	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

// Export labels use a 7px wide monospace face.
const exportCharWidth = 7

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the heat map as SVG or PNG, or the metrics as a JSON or YAML snapshot.",
		Example: "  kiqheat export -o heat.svg --period 24h --bucket 1h\n" +
			"  kiqheat export -o snapshot.yaml\n" +
			"  kiqheat export --file snapshot.yaml -o heat.png --width 1600",
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	exportCmd.Flags().StringP("output", "o", "", "output file (.svg, .png, .json or .yaml)")
	exportCmd.Flags().Int("width", 0, "image width in pixels")
	exportCmd.Flags().Int("height", 0, "image height in pixels")
	exportCmd.Flags().String("title", "", "image title (default names the metric and period)")
	_ = exportCmd.MarkFlagRequired("output")
	return exportCmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	out, err := flags.GetString("output")
	if err != nil {
		return fmt.Errorf("parse output flag: %w", err)
	}
	width, height := s.cfg.Export.Width, s.cfg.Export.Height
	if flags.Changed("width") {
		if width, err = flags.GetInt("width"); err != nil {
			return fmt.Errorf("parse width flag: %w", err)
		}
	}
	if flags.Changed("height") {
		if height, err = flags.GetInt("height"); err != nil {
			return fmt.Errorf("parse height flag: %w", err)
		}
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	title, err := flags.GetString("title")
	if err != nil {
		return fmt.Errorf("parse title flag: %w", err)
	}

	logger, closeLog, err := openLogger(s.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	src, _, closeSource, err := openSource(s, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	heat, err := src.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch metrics from %s: %w", src, err)
	}

	// Snapshots skip rendering.
	if _, err := dataset.FormatFromPath(out); err == nil {
		if err := dataset.Save(out, heat); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d points to %s\n", len(heat.Points), out)
		return nil
	}
	if _, err := export.FormatFromPath(out); err != nil {
		return err
	}

	b, err := newBoard(s, 0, logger)
	if err != nil {
		return err
	}
	if title == "" {
		title = fmt.Sprintf("Sidekiq jobs by %s, %s", s.metric, s.cfg.Period)
		if s.file != "" {
			title = fmt.Sprintf("Sidekiq jobs by %s", s.metric)
		}
	}
	b.SetMargins(exportMargins(heat))
	if err := b.Resize(width, height); err != nil {
		return err
	}
	if err := b.Load(heat); err != nil {
		return fmt.Errorf("render heat map: %w", err)
	}
	if err := export.Save(out, b.Scene(time.Now()), export.Options{Title: title}); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

// exportMargins leaves room for the longest class name on the left, bucket
// labels below and the title above.
func exportMargins(heat sidekiq.JobHeat) chart.Margins {
	longest := 0
	for _, p := range heat.Points {
		longest = max(longest, utf8.RuneCountInString(p.Class))
	}
	return chart.Margins{
		Top:    24,
		Right:  40,
		Bottom: 30,
		Left:   longest*exportCharWidth + 16,
	}
}
