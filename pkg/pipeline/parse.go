package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/observability"
)

// ValidateRecords turns decoded JSON into records. Input that is not an
// array, or an empty array, is an INVALID_INPUT error; failing cards yield
// one *errors.ValidationError listing all of them.
func ValidateRecords(ctx context.Context, raw any) ([]cards.Record, error) {
	hooks := observability.Pipeline()
	items, _ := raw.([]any)
	hooks.OnValidateStart(ctx, len(items))
	start := time.Now()

	records, err := cards.ValidateAll(raw)
	if err == nil && len(records) == 0 {
		err = errors.New(errors.ErrCodeInvalidInput, "at least one card is required")
	}
	hooks.OnValidateComplete(ctx, len(items), issueCount(err), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func issueCount(err error) int {
	var verr *errors.ValidationError
	if stderrors.As(err, &verr) {
		return len(verr.Issues)
	}
	return 0
}
