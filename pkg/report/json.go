package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/pipeline"
)

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, s *pipeline.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(s)
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}
