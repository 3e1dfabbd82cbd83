package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardsheet/internal/document"
)

func newCombineCommand(ctx *commandContext) *cobra.Command {
	var prefix, output string
	var dpi float64

	cmd := &cobra.Command{
		Use:   "combine [folder]",
		Short: "Merge page images into one PDF",
		Long: `Collect the PNG and JPEG files in a folder whose names start with the
prefix, sort them by name and write them as one multi-page PDF. PDFs
from earlier runs that match the prefix are removed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := document.CombineOptions{
				Folder: cfg.Output.Dir,
				Prefix: cfg.Output.Prefix,
				DPI:    cfg.Output.DPI,
			}
			if len(args) == 1 {
				opts.Folder = args[0]
			}
			if cmd.Flags().Changed("prefix") {
				opts.Prefix = prefix
			}
			if cmd.Flags().Changed("output") {
				opts.Output = output
			}
			if cmd.Flags().Changed("dpi") {
				opts.DPI = dpi
			}
			return runCombine(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", document.DefaultPrefix, "File name prefix of the pages")
	cmd.Flags().StringVarP(&output, "output", "o", "all_pages.pdf", "PDF name inside the folder")
	cmd.Flags().Float64Var(&dpi, "dpi", document.DefaultDPI, "Pixels per inch used to size PDF pages")
	return cmd
}

func runCombine(cmd *cobra.Command, ctx *commandContext, opts document.CombineOptions) error {
	opts.Logger = ctx.log()
	res, err := document.Combine(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res == nil {
		fmt.Fprintf(out, "No images starting with %q in %s\n", opts.Prefix, opts.Folder)
		return nil
	}
	fmt.Fprintf(out, "Combined %d pages into %s (%s)\n", len(res.Pages), res.Output, fileSize(res.Output))
	for _, r := range res.Removed {
		fmt.Fprintf(out, "Removed %s\n", r)
	}
	return nil
}
