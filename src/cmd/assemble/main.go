package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookcap/src/assembler"
)

type cliOptions struct {
	pattern string
	out     string
	sort    string
	reverse bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"assemble"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "assemble FOLDER",
		Short:         "Combine captured page images into a single PDF",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd, args[0], *opts)
		},
	}

	cmd.Flags().StringVar(&opts.pattern, "pattern", assembler.DefaultPattern, "Glob matched against file names in FOLDER")
	cmd.Flags().StringVar(&opts.out, "out", assembler.DefaultOut, "Output PDF name (relative names land inside FOLDER)")
	cmd.Flags().StringVar(&opts.sort, "sort", string(assembler.SortCTime), "Page ordering: ctime, mtime or name")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "Reverse the page order")

	return cmd
}

func runWithOptions(cmd *cobra.Command, folder string, opts cliOptions) error {
	mode, err := assembler.ParseSortMode(opts.sort)
	if err != nil {
		return err
	}

	assembleOpts := assembler.Options{
		Pattern: opts.pattern,
		Out:     opts.out,
		Sort:    mode,
		Reverse: opts.reverse,
	}

	entries, err := assembler.ListOrdered(folder, assembleOpts)
	if err != nil {
		return err
	}

	// Show the resolved order before committing it to the PDF.
	fmt.Fprintf(cmd.OutOrStdout(), "Assembling %d pages (sort=%s reverse=%v):\n", len(entries), mode, opts.reverse)
	for i, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "  %4d  %s  %s\n", i+1, e.Primary.Format("2006-01-02 15:04:05"), filepath.Base(e.Path))
	}

	out, _, err := assembler.Assemble(folder, assembleOpts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}
