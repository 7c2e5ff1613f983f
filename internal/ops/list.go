package ops

import (
	"context"

	"shutter/internal/shot"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit int // default: 50, max: 200
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Success        bool           `json:"success"`
	Screenshots    []shot.Summary `json:"screenshots"`
	Count          int            `json:"count"`
	Limit          int            `json:"limit"`
	RendererReport string         `json:"renderer_report"`
}

// List enumerates stored captures, newest first. The renderer's own report
// output is attached best-effort; its failure never aborts the listing.
func List(ctx context.Context, deps *Deps, input ListInput) (*ListOutput, error) {
	limit := clampLimit(input.Limit)

	summaries, err := deps.Index.ListAll(limit)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []shot.Summary{}
	}

	return &ListOutput{
		Success:        true,
		Screenshots:    summaries,
		Count:          len(summaries),
		Limit:          limit,
		RendererReport: deps.Invoker.Report(ctx),
	}, nil
}
