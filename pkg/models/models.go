package models

import (
	"sort"
	"strings"

	"recipe-importer/pkg/api"
)

// Labels for the HuggingFace config keys worth showing next to a model.
// Several keys name the same concept in different architectures.
var configLabels = map[string]string{
	"architectures":           "Architecture",
	"max_position_embeddings": "Context Window",
	"max_sequence_length":     "Context Window",
	"seq_length":              "Context Window",
	"max_seq_len":             "Context Window",
	"model_max_length":        "Context Window",
	"attention_dropout":       "Attention Dropout",
	"bos_token_id":            "BOS Token ID",
	"bos_token":               "BOS Token",
	"classifier_dropout":      "Classifier Dropout",
	"decoder_start_token_id":  "Decoder Start Token ID",
	"decoder_start_token":     "Decoder Start Token",
	"dropout":                 "Dropout",
	"d_ff":                    "Feed Forward Dimension",
	"d_kv":                    "Key/Value Dimension",
	"d_model":                 "Model Dimensions",
	"num_heads":               "Number of Heads",
	"num_layers":              "Number of Layers",
	"vocab_size":              "Vocabulary Size",
}

// IsHuggingFaceID reports whether a model id refers to a HuggingFace repo,
// i.e. has the form owner/name.
func IsHuggingFaceID(id string) bool {
	return strings.Contains(id, "/")
}

// TranslateConfig keeps the known keys of a HuggingFace config, sorted by
// label then key.
func TranslateConfig(cfg map[string]any) []api.ModelDetail {
	details := make([]api.ModelDetail, 0, len(cfg))
	for key, value := range cfg {
		if label, ok := configLabels[key]; ok {
			details = append(details, api.ModelDetail{Key: key, Label: label, Value: value})
		}
	}

	sort.Slice(details, func(i, j int) bool {
		if details[i].Label != details[j].Label {
			return details[i].Label < details[j].Label
		}
		return details[i].Key < details[j].Key
	})
	return details
}
