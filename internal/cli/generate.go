package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cpio "github.com/matzehuels/cardpress/pkg/io"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/sink"
)

// generateOptions holds the generate command's flags.
type generateOptions struct {
	output    string
	format    string
	duplicate int
	scale     float64
	title     string
	noCache   bool
	tpl       templateFlags
}

// addTemplateFlags registers the flags shared by every command that renders.
func addTemplateFlags(cmd *cobra.Command, f *templateFlags) {
	cmd.Flags().StringVarP(&f.path, "template", "t", "", "page template file (TOML, env "+EnvTemplate+")")
	cmd.Flags().Float64Var(&f.margin, "margin", -1, "page margin in mm (overrides the template; not with --spacing)")
	cmd.Flags().Float64Var(&f.spacing, "spacing", -1, "gap between cards in mm; the grid is centred and margins follow (not with --margin)")
	cmd.Flags().BoolVar(&f.noCutLines, "no-cut-lines", false, "omit crop marks")
	cmd.Flags().BoolVar(&f.noQR, "no-qr", false, "omit QR codes")
	_ = cmd.MarkFlagFilename("template", "toml")
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <cards.json>",
		Short: "Render a cards file into a printable sheet",
		Long: `Validate every card in a JSON file, lay them out ten per A4 page and write
the document. Logo paths are resolved relative to the cards file.`,
		Example: `  cardpress generate cards.json
  cardpress generate cards.json -o team.pdf --duplicate 10
  cardpress generate cards.json --format json --no-qr`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: jsonFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default business-cards.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.DefaultFormat, "output format: pdf, json or png")
	cmd.Flags().IntVarP(&opts.duplicate, "duplicate", "d", pipeline.DefaultDuplicate, "copies of every card")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG pixels per point (default 2)")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even when a cached document exists")
	addTemplateFlags(cmd, &opts.tpl)

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, input string, opts generateOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	tpl, err := opts.tpl.resolve(c.Config)
	if err != nil {
		return err
	}
	raw, err := cpio.ImportRecords(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	output := opts.output
	if output == "" {
		output = defaultOutput + sink.Extension(opts.format)
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering cards...")
	spinner.Start()

	var result *pipeline.Result
	err = cpio.WriteAtomic(output, func(w io.Writer) error {
		res, err := runner.Execute(ctx, raw, pipeline.Options{
			Format:    opts.format,
			Duplicate: opts.duplicate,
			Scale:     opts.scale,
			Title:     opts.title,
			NoCache:   opts.noCache,
			Template:  &tpl,
			BaseDir:   filepath.Dir(input),
		})
		if err != nil {
			return err
		}
		result = res
		_, err = w.Write(res.Artifact)
		return err
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(result.Info.Pages, "page")))

	printSuccess("Generated %s", strings.ToUpper(result.Format))
	printFile(output)
	printSheetStats(result.Info.Pages, result.Info.Cards, len(result.Warnings), result.CacheHit)
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}
	return nil
}
