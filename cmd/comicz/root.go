package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts convertOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "comicz -i <path> [flags]",
		Short: "Recompress CBR/CBZ comic archives into CBZ with WebP pages",
		Long: `comicz converts comic archives (CBR or CBZ) into CBZ archives whose JPEG and
PNG pages are re-encoded as WebP. Other entries are copied unchanged.

A single file or a directory may be given as input. Converted archives are
written under the output directory, mirroring the input layout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "Comic archive or directory to convert (required)")
	flags.StringVarP(&opts.output, "output", "o", "", "Output base directory (default from config: converted_comics)")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "Traverse subdirectories of the input directory")
	flags.BoolVarP(&opts.skip, "skip", "s", false, "Skip archives whose output already exists")
	flags.IntVarP(&opts.quality, "quality", "q", 75, "WebP quality from 0 (smallest) to 100 (best)")
	flags.BoolVarP(&opts.parallel, "parallel", "p", false, "Convert several archives at once")
	flags.IntVarP(&opts.multiProcessing, "multi-processing", "m", 1, "Pages transcoded concurrently within one archive")
	flags.IntVar(&opts.workers, "workers", 0, "Archive workers when --parallel is set (0 = one per CPU)")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record conversions in the history ledger")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "List archives that were not converted in the summary")
	_ = rootCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
