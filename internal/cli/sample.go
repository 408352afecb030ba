package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/cards"
	cpio "github.com/matzehuels/cardpress/pkg/io"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// templateCommand creates the template command, which writes sample input.
func (c *CLI) templateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a sample cards file to start from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cpio.ExportRecords(cards.SampleRecords(), output); err != nil {
				return err
			}
			printSuccess("Wrote sample cards")
			printFile(output)
			printNextStep("Render it with", "cardpress generate "+output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", defaultTemplateOutput, "output file")
	return cmd
}

// sampleCommand creates the sample command, which renders the sample cards.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		output string
		tf     templateFlags
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Render the sample cards into a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := tf.resolve(c.Config)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))

			var result *pipeline.Result
			err = cpio.WriteAtomic(output, func(w io.Writer) error {
				res, err := runner.Render(cmd.Context(), cards.SampleRecords(), pipeline.Options{
					Format:   pipeline.FormatPDF,
					Title:    "Sample Business Cards",
					Template: &tpl,
				})
				if err != nil {
					return err
				}
				result = res
				_, err = w.Write(res.Artifact)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Generated sample PDF")
			printFile(output)
			printSheetStats(result.Info.Pages, result.Info.Cards, len(result.Warnings), false)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", defaultSampleOutput, "output file")
	addTemplateFlags(cmd, &tf)
	return cmd
}
