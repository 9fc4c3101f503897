package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/policywatch/internal/host"
	"github.com/ppiankov/policywatch/internal/model"
	"github.com/ppiankov/policywatch/internal/pipeline"
	"github.com/ppiankov/policywatch/internal/widget"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// reportView renders a pipeline report the way a widget shows a result
func reportView(r *pipeline.Report, fullAnalysisURL string) string {
	result := r.Result
	return host.FormatView(widget.BuildView(widget.Snapshot{
		State:           model.StateResult,
		URL:             r.FinalURL,
		Company:         r.Company,
		Platform:        r.Platform,
		Result:          &result,
		FullAnalysisURL: fullAnalysisURL,
	}))
}
