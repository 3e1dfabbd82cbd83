package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardsheet/internal/cards"
	"github.com/ironsheep/cardsheet/internal/document"
	"github.com/ironsheep/cardsheet/internal/layout"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var tile string
	var combine bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Stamp a number range onto sheets of tiles",
		Long: `Stamp sequential numbers onto copies of a tile image and lay them out
as printable sheets named page_<start>_<end>. The last sheet is left
partly blank when the range does not fill it.`,
		Args: cobra.NoArgs,
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

			opts, err := cfg.CardOptions(ctx.log())
			if err != nil {
				return err
			}
			r := cfg.NumberRange()
			bar := newProgress(cmd.ErrOrStderr(), layout.PageCount(r, opts.Grid.Capacity()), "pages")
			opts.OnPage = func(cards.Page) { step(bar) }

			l, err := cards.NewLabeler(opts)
			if err != nil {
				return err
			}
			res, err := l.GeneratePages(cmd.Context(), cfg.Tile.Path, r, cfg.Output.Dir)
			finish(bar)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Pages) == 0 {
				fmt.Fprintf(out, "Range %s is empty; no pages written\n", r)
				return nil
			}
			fmt.Fprintln(out, pagesTable(res.Pages))
			fmt.Fprintf(out, "%d pages, %d cards, %dx%d px, font %s\n",
				len(res.Pages), r.Len(), res.Geometry.Canvas.X, res.Geometry.Canvas.Y, res.Font)

			if combine {
				if !opts.Format.Raster() {
					return errors.New("--combine needs png or jpeg pages")
				}
				return runCombine(cmd, ctx, document.CombineOptions{
					Folder: cfg.Output.Dir,
					Prefix: cards.PagePrefix,
					DPI:    opts.DPI,
				})
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&tile, "tile", "t", "", "Tile image to number")
	cmd.Flags().BoolVar(&combine, "combine", false, "Merge the pages into all_pages.pdf afterwards")
	return cmd
}

func pagesTable(pages []cards.Page) string {
	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{
			strconv.Itoa(p.Index),
			fmt.Sprintf("%d-%d", p.Start, p.End),
			strconv.Itoa(p.Cells),
			fileSize(p.Path),
			filepath.Base(p.Path),
		})
	}
	return renderTable(
		[]string{"Page", "Numbers", "Cards", "Size", "File"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
	)
}
