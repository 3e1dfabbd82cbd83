package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardsheet/internal/cards"
	"github.com/ironsheep/cardsheet/internal/layout"
)

func newDeckCommand(ctx *commandContext) *cobra.Command {
	var flags jobFlags
	var front, back, doc string

	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Print a two-sided deck",
		Long: `Print unnumbered front sheets and numbered back sheets, one pair per
page of numbers, and interleave them front, back, front, back into one
PDF for duplex printing.

Sheets are laid out on a letter page unless --page names another one.
The front tile fixes the cell size and the back tile is resized to it.`,
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
			if cmd.Flags().Changed("front") {
				cfg.Tile.Front = front
			}
			if cmd.Flags().Changed("back") {
				cfg.Tile.Path = back
			}
			if cmd.Flags().Changed("document") {
				cfg.Output.Document = doc
			}
			if cfg.Tile.Front == "" || cfg.Tile.Path == "" {
				return errors.New("deck needs --front and --back tiles")
			}

			opts, err := cfg.CardOptions(ctx.log())
			if err != nil {
				return err
			}
			r := cfg.NumberRange()
			bar := newProgress(cmd.ErrOrStderr(), 2*layout.PageCount(r, opts.Grid.Capacity()), "sheets")
			opts.OnPage = func(cards.Page) { step(bar) }

			l, err := cards.NewLabeler(opts)
			if err != nil {
				return err
			}
			res, err := l.GenerateDeck(cmd.Context(), cfg.Tile.Front, cfg.Tile.Path, r, cfg.Output.Dir, cfg.Output.Document)
			finish(bar)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Backs) == 0 {
				fmt.Fprintf(out, "Range %s is empty; no sheets written\n", r)
				return nil
			}
			rows := make([][]string, 0, len(res.Backs))
			for i, b := range res.Backs {
				rows = append(rows, []string{
					strconv.Itoa(b.Index),
					fmt.Sprintf("%d-%d", b.Start, b.End),
					filepath.Base(res.Fronts[i].Path),
					filepath.Base(b.Path),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Sheet", "Numbers", "Front", "Back"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Interleaved %d pages into %s (%s)\n", 2*len(res.Backs), res.Document, fileSize(res.Document))
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&front, "front", "", "Front tile (not numbered)")
	cmd.Flags().StringVar(&back, "back", "", "Back tile (numbered)")
	cmd.Flags().StringVar(&doc, "document", cards.DefaultDeckDocument, "Interleaved PDF name")
	return cmd
}
