package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cfimages/cfimage"
)

var (
	widthsFlag  string
	sourceFlags []string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve REF [key=value...]",
	Short: "Print the URL for an image reference",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, opts, err := resolverAndOptions(args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.ResolveImage(args[0], opts))
		return nil
	},
}

var srcsetCmd = &cobra.Command{
	Use:   "srcset REF [key=value...]",
	Short: "Print src, srcset and sizes for an image reference",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, opts, err := resolverAndOptions(args[1:])
		if err != nil {
			return err
		}
		widths, err := parseWidths(widthsFlag)
		if err != nil {
			return err
		}
		resp := r.ResponsiveSet(args[0], widths, opts)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "src: %s\n", resp.Src)
		fmt.Fprintf(out, "srcset: %s\n", resp.SrcSet)
		fmt.Fprintf(out, "sizes: %s\n", resp.Sizes)
		return nil
	},
}

var imgCmd = &cobra.Command{
	Use:   "img REF [key=value...]",
	Short: "Print an <img> tag for an image reference",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, opts, err := resolverAndOptions(args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.ImgTag(args[0], opts))
		return nil
	},
}

var pictureCmd = &cobra.Command{
	Use:   "picture REF [key=value...]",
	Short: "Print a <picture> tag with --source entries and a fallback <img>",
	Long: `Print a <picture> tag. Each --source is "media|type|widths|key=value;key=value",
trailing fields may be left out:

  cfimages picture hero.jpg alt=Hero \
    --source "(min-width: 1024px)|image/avif|1024,2048|format=avif" \
    --source "(min-width: 640px)||640,960"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, opts, err := resolverAndOptions(args[1:])
		if err != nil {
			return err
		}
		sources := make([]cfimage.Source, 0, len(sourceFlags))
		for _, raw := range sourceFlags {
			src, err := parseSource(raw)
			if err != nil {
				return err
			}
			sources = append(sources, src)
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.PictureTag(args[0], sources, opts))
		return nil
	},
}

func init() {
	srcsetCmd.Flags().StringVar(&widthsFlag, "widths", "", "comma separated breakpoints (default 640,768,1024,1536)")
	pictureCmd.Flags().StringArrayVar(&sourceFlags, "source", nil, `source spec "media|type|widths|options"`)

	rootCmd.AddCommand(resolveCmd, srcsetCmd, imgCmd, pictureCmd)
}

func resolverAndOptions(args []string) (*cfimage.Resolver, cfimage.Options, error) {
	opts, err := parseOptions(args)
	if err != nil {
		return nil, nil, err
	}
	r, err := newResolver()
	if err != nil {
		return nil, nil, err
	}
	return r, opts, nil
}

// parseSource parses "media|type|widths|k=v;k=v"
func parseSource(raw string) (cfimage.Source, error) {
	fields := strings.SplitN(raw, "|", 4)
	for len(fields) < 4 {
		fields = append(fields, "")
	}

	widths, err := parseWidths(fields[2])
	if err != nil {
		return cfimage.Source{}, fmt.Errorf("source %q: %w", raw, err)
	}

	var optArgs []string
	if fields[3] != "" {
		optArgs = strings.Split(fields[3], ";")
	}
	opts, err := parseOptions(optArgs)
	if err != nil {
		return cfimage.Source{}, fmt.Errorf("source %q: %w", raw, err)
	}

	return cfimage.Source{Media: fields[0], Type: fields[1], Widths: widths, Options: opts}, nil
}
