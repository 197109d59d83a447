package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gyaneshwarpardhi/tempreach/internal/analysis"
)

// JSON writes the full result document.
//
// Params:
//   - indent: pretty-print (default false)
type JSON struct{}

func (JSON) Type() string { return "json" }

func (JSON) Validate(params map[string]interface{}) error {
	if v, ok := params["indent"]; ok {
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("json: indent must be a boolean, got %T", v)
		}
	}
	return nil
}

func (JSON) Write(w io.Writer, res *analysis.Result, params map[string]interface{}) error {
	enc := json.NewEncoder(w)
	if indent, _ := params["indent"].(bool); indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}
