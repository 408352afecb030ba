package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cpio "github.com/matzehuels/cardpress/pkg/io"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// fieldHelp lists the input fields for the info command.
var fieldHelp = [][2]string{
	{"name", "required"},
	{"title", "job title"},
	{"company", "company name"},
	{"professional", "specialty; replaces title on the card"},
	{"crmNumber", "digits only, with crmRegion (alias crm)"},
	{"crmRegion", "two uppercase letters, with crmNumber (alias crm_uf)"},
	{"phone", "(XX) XXXXX-XXXX"},
	{"email", "email address"},
	{"website", "site; also encoded in the QR code"},
	{"logoPath", "logo image, relative to the cards file (alias logo)"},
}

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		input     string
		duplicate int
		tf        templateFlags
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the sheet layout and the card fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := tf.resolve(c.Config)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateDuplicate(duplicate); err != nil {
				return err
			}

			n := 0
			if input != "" {
				raw, err := cpio.ImportRecords(input)
				if err != nil {
					return err
				}
				records, err := pipeline.ValidateRecords(cmd.Context(), raw)
				if err != nil {
					return err
				}
				n = len(records) * duplicate
			}

			fmt.Println(StyleTitle.Render("Sheet"))
			fmt.Println(infoTable(pipeline.Describe(n, tpl)))
			printNewline()
			fmt.Println(StyleTitle.Render("Fields"))
			for _, f := range fieldHelp {
				printKeyValue(f[0], f[1])
			}
			printNewline()
			printDetail("Formats: %s", strings.Join([]string{pipeline.FormatPDF, pipeline.FormatJSON, pipeline.FormatPNG}, ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "cards file to count pages for")
	cmd.Flags().IntVarP(&duplicate, "duplicate", "d", pipeline.DefaultDuplicate, "copies of every card")
	addTemplateFlags(cmd, &tf)
	return cmd
}
