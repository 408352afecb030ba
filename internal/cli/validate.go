package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	cpio "github.com/matzehuels/cardpress/pkg/io"
)

// errValidation signals failing cards after the report was printed.
var errValidation = errors.New(errors.ErrCodeValidationFailed, "some cards failed validation")

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "validate <cards.json>",
		Short:             "Check every card in a cards file",
		Long:              `Validate every card and print a pass/fail line per card. Exits with status 1 when any card fails.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: jsonFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := loadOutcomes(args[0])
			if err != nil {
				return err
			}
			fmt.Println(reportTable(outcomes))

			failed := 0
			for _, o := range outcomes {
				if !o.OK() {
					failed++
				}
			}
			if failed > 0 {
				printError("%s of %d failed", plural(failed, "card"), len(outcomes))
				return errValidation
			}
			printSuccess("All %s are valid", plural(len(outcomes), "card"))
			return nil
		},
	}
}

// loadOutcomes reads a cards file and validates each card on its own.
func loadOutcomes(path string) ([]cards.Outcome, error) {
	raw, err := cpio.ImportRecords(path)
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cards must be a JSON array of objects")
	}
	if len(items) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one card is required")
	}
	return cards.Report(items), nil
}
