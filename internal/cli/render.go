package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fumen-tools/fumetree/pkg/cache"
	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
	"github.com/fumen-tools/fumetree/pkg/pagetree/codec"
	"github.com/fumen-tools/fumetree/pkg/pagetree/layout"
	"github.com/fumen-tools/fumetree/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"

	defaultPNGScale = 2.0
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path (stdout if empty for dot)
	format   string  // output format: dot, svg, pdf, png
	detailed bool    // include node IDs and lanes in labels
	scale    float64 // PNG scale factor
	noCache  bool    // bypass the artifact cache
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG, scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render <comment-or-file>",
		Short: "Render a tree as a diagram",
		Long: `Decode the tree embedded in a fumen comment, compute its layout, and
render it as a node-link diagram. The main route runs along the top row;
branches fan out below on their own lanes.

Formats: svg (default), png, pdf, dot. PNG and PDF conversion require
librsvg (rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			comment, err := readComment(args[0])
			if err != nil {
				return err
			}
			return c.runRender(cmd, comment, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default tree.<format>, stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, pdf, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node IDs and lanes in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass caches")

	return cmd
}

func validateFormat(format string) error {
	switch format {
	case formatDOT, formatSVG, formatPDF, formatPNG:
		return nil
	}
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q (want dot, svg, pdf, or png)", format)
}

func (c *CLI) runRender(cmd *cobra.Command, comment string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := c.Logger
	prog := newProgress(logger)

	store := c.newCache(opts.noCache)
	defer store.Close()

	tree, _, err := c.decodeTree(ctx, store, comment)
	if err != nil {
		return err
	}

	treeHash := cache.Hash([]byte(codec.Encode(tree)))
	key := cache.ArtifactKey(treeHash, artifactVariant(opts))

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		if err := writeArtifact(opts, data); err != nil {
			return err
		}
		printStats(tree.Len(), countBranches(tree), true)
		return nil
	}

	lay := layout.Calculate(tree)
	dot := render.ToDOT(tree, lay, render.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = render.RenderSVG(dot)
	case formatPDF:
		data, err = render.RenderPDF(dot)
	case formatPNG:
		data, err = render.RenderPNG(dot, opts.scale)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.format, err)
	}

	if err := store.Set(ctx, key, data, c.cacheTTL()); err != nil {
		logger.Debug("artifact cache write failed", "err", err)
	}

	if err := writeArtifact(opts, data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d pages", tree.Len()))
	printStats(tree.Len(), countBranches(tree), false)
	return nil
}

// artifactVariant distinguishes cache entries that share a tree but differ
// in rendering flags.
func artifactVariant(opts *renderOpts) string {
	variant := opts.format
	if opts.detailed {
		variant += "-detailed"
	}
	if opts.format == formatPNG {
		variant += fmt.Sprintf("-%.2fx", opts.scale)
	}
	return variant
}

// writeArtifact writes the rendered bytes to the output target. DOT with no
// explicit output goes to stdout; binary formats default to tree.<format>.
func writeArtifact(opts *renderOpts, data []byte) error {
	out := opts.output
	if out == "" {
		if opts.format == formatDOT {
			fmt.Print(string(data))
			if !strings.HasSuffix(string(data), "\n") {
				fmt.Println()
			}
			return nil
		}
		out = "tree." + opts.format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printFile(out)
	return nil
}
