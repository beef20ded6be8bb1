package recipes

import (
	"fmt"
	"strings"

	"recipe-importer/pkg/api"
)

type OutcomePolicy int

const (
	// Model and dataset are checked independently.
	IndependentChecks OutcomePolicy = iota
	// A missing model ends the evaluation before the dataset is looked at.
	LegacyShortCircuit
)

const (
	NoModelWarning   = "no associated model"
	NoDatasetWarning = "no associated dataset"
)

// Outcome summarizes which assets referenced by an imported recipe need
// attention. Pending paths are empty when nothing needs downloading.
type Outcome struct {
	ModelMissing   bool
	DatasetMissing bool
	ModelPending   string
	DatasetPending string
}

func ComputeOutcome(data api.UploadData, policy OutcomePolicy) Outcome {
	var out Outcome

	switch {
	case data.Model == nil || data.Model.Path == "":
		out.ModelMissing = true
		if policy == LegacyShortCircuit {
			return out
		}
	case !data.Model.Downloaded:
		out.ModelPending = data.Model.Path
	}

	switch {
	case data.Dataset == nil || data.Dataset.Path == "":
		out.DatasetMissing = true
	case !data.Dataset.Downloaded:
		out.DatasetPending = data.Dataset.Path
	}

	return out
}

func (o Outcome) Warnings() []string {
	var warnings []string
	if o.ModelMissing {
		warnings = append(warnings, NoModelWarning)
	}
	if o.DatasetMissing {
		warnings = append(warnings, NoDatasetWarning)
	}
	return warnings
}

// Advisory joins the pending downloads into one message, or returns "".
func (o Outcome) Advisory() string {
	var msgs []string
	if o.ModelPending != "" {
		msgs = append(msgs, fmt.Sprintf("download model %s", o.ModelPending))
	}
	if o.DatasetPending != "" {
		msgs = append(msgs, fmt.Sprintf("download dataset %s", o.DatasetPending))
	}
	return strings.Join(msgs, ", ")
}

func ParseOutcomePolicy(s string) (OutcomePolicy, error) {
	switch s {
	case "", "independent":
		return IndependentChecks, nil
	case "legacy":
		return LegacyShortCircuit, nil
	default:
		return IndependentChecks, fmt.Errorf("unknown outcome policy '%s'", s)
	}
}
