package recipes

import (
	"bytes"
	"encoding/json"
	"errors"

	"recipe-importer/pkg/api"
)

const statusError = "error"

// Result is either Success or Failure.
type Result interface {
	isResult()
}

type Success struct {
	Data api.UploadData
}

type Failure struct {
	Message string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// DecodeResult validates an import response body. Any status other than
// "error", including a missing one, is treated as success and must carry data.
func DecodeResult(body []byte) (Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ProtocolError{Detail: "response body is not a json object"}
	}

	var raw api.UploadResult
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ProtocolError{Detail: "malformed response body", Err: err}
	}

	if raw.Status == statusError {
		return Failure{Message: raw.Message}, nil
	}

	if raw.Data == nil {
		return nil, &ProtocolError{Detail: MissingDataDetail}
	}

	return Success{Data: *raw.Data}, nil
}

// Interpret converts a decoded result into the uploader's error taxonomy.
func Interpret(result Result) (api.UploadData, error) {
	switch r := result.(type) {
	case Success:
		return r.Data, nil
	case Failure:
		return api.UploadData{}, &ApplicationError{Message: r.Message}
	default:
		return api.UploadData{}, errors.New("unknown result type")
	}
}
