package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/cardsheet/internal/cards"
	"github.com/ironsheep/cardsheet/internal/layout"
	"github.com/ironsheep/cardsheet/internal/ocr"
)

// errMismatch is returned when a proofed sheet does not carry its numbers.
var errMismatch = errors.New("verification found mismatches")

type labelReadCloser interface {
	cards.LabelReader
	Close() error
}

var openReader = func(language string) (labelReadCloser, error) {
	return ocr.NewReader(language, ocr.Digits)
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var tile, language string

	cmd := &cobra.Command{
		Use:   "verify <page>...",
		Short: "Proof written sheets with OCR",
		Long: `Read back every stamped number on the given sheets and check that
unused cells are blank. The number range of each sheet comes from its
page_<start>_<end> file name unless --start and --end are given. Layout
flags must match the run that wrote the sheets.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(cmd, base)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tile") {
				cfg.Tile.Path = tile
			}
			if cfg.Tile.Path == "" {
				return errors.New("no tile given; pass --tile or set tile.path in the job file")
			}
			explicit := cmd.Flags().Changed("start") && cmd.Flags().Changed("end")
			if explicit && len(args) > 1 {
				return errors.New("--start and --end apply to a single page")
			}

			opts, err := cfg.CardOptions(ctx.log())
			if err != nil {
				return err
			}
			l, err := cards.NewLabeler(opts)
			if err != nil {
				return err
			}
			reader, err := openReader(language)
			if err != nil {
				return err
			}
			defer reader.Close()

			var summary, problems [][]string
			failed := false
			for _, page := range args {
				chunk, ok := cards.ParsePageName(page)
				if explicit {
					chunk, ok = layout.Chunk{Index: 1, Start: cfg.Range.Start, End: cfg.Range.End}, true
				}
				if !ok {
					return fmt.Errorf("cannot infer the number range from %q; pass --start and --end", filepath.Base(page))
				}

				res, err := l.Verify(cmd.Context(), page, cfg.Tile.Path, chunk, reader)
				if err != nil {
					return fmt.Errorf("%s: %w", page, err)
				}
				if res.Mismatches > 0 {
					failed = true
				}
				summary = append(summary, []string{
					filepath.Base(page),
					fmt.Sprintf("%d-%d", res.Start, res.End),
					strconv.Itoa(len(res.Findings)),
					strconv.Itoa(res.Mismatches),
				})
				for _, f := range res.Findings {
					if f.OK {
						continue
					}
					problems = append(problems, findingRow(filepath.Base(page), f))
				}
				ctx.log().Debug("sheet proofed", zap.String("page", page), zap.Int("mismatches", res.Mismatches))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Page", "Numbers", "Checks", "Mismatches"},
				summary,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			if len(problems) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Page", "Cell", "Label", "Want", "Got", "Confidence"},
					problems,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignRight},
				))
			}
			if failed {
				return errMismatch
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&tile, "tile", "t", "", "Tile image the sheets were made from")
	cmd.Flags().StringVar(&language, "language", "eng", "OCR language")
	return cmd
}

func findingRow(page string, f cards.Finding) []string {
	label, want, got := strconv.Itoa(f.Label), f.Want, f.Got
	if f.Blank {
		label, want, got = "-", "(blank)", "(marked)"
	}
	return []string{
		page,
		strconv.Itoa(f.Cell),
		label,
		want,
		got,
		fmt.Sprintf("%.0f%%", f.Confidence*100),
	}
}
