// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// exportDoc is the JSON and YAML shape of a report.
type exportDoc struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	Columns   []string     `json:"columns" yaml:"columns"`
	Summary   []SummaryRow `json:"summary" yaml:"summary"`
	Details   []DetailRow  `json:"details" yaml:"details"`
}

func (r *Report) export() exportDoc {
	doc := exportDoc{
		RunID:     r.RunID,
		CreatedAt: r.CreatedAt,
		Columns:   r.InputColumns,
		Summary:   r.Summary,
		Details:   r.Details,
	}
	if doc.Summary == nil {
		doc.Summary = []SummaryRow{}
	}
	if doc.Details == nil {
		doc.Details = []DetailRow{}
	}
	return doc
}

// WriteJSON writes r to path as indented JSON.
func WriteJSON(path string, r *Report) error {
	data, err := json.MarshalIndent(r.export(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// WriteYAML writes r to path as YAML.
func WriteYAML(path string, r *Report) error {
	data, err := yaml.Marshal(r.export())
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
