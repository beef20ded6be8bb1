package recipes_test

import (
	"errors"
	"testing"

	"recipe-importer/internal/recipes"
	"recipe-importer/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		res, err := recipes.DecodeResult([]byte(`{"status":"success","data":{"model":{"path":"m1","downloaded":true}}}`))
		require.NoError(t, err)
		assert.Equal(t, recipes.Success{Data: api.UploadData{Model: &api.AssetStatus{Path: "m1", Downloaded: true}}}, res)
	})

	t.Run("Error", func(t *testing.T) {
		res, err := recipes.DecodeResult([]byte(`{"status":"error","message":"bad name"}`))
		require.NoError(t, err)
		assert.Equal(t, recipes.Failure{Message: "bad name"}, res)
	})

	t.Run("MissingDataWithoutStatus", func(t *testing.T) {
		_, err := recipes.DecodeResult([]byte(`{"message":"ok"}`))
		var protocolErr *recipes.ProtocolError
		require.True(t, errors.As(err, &protocolErr))
		assert.Equal(t, recipes.MissingDataDetail, protocolErr.Error())
	})

	t.Run("NullData", func(t *testing.T) {
		_, err := recipes.DecodeResult([]byte(`{"status":"success","data":null}`))
		assert.EqualError(t, err, recipes.MissingDataDetail)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		for _, body := range []string{``, `[]`, `"success"`, `<html>`} {
			_, err := recipes.DecodeResult([]byte(body))
			var protocolErr *recipes.ProtocolError
			assert.True(t, errors.As(err, &protocolErr), body)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := recipes.DecodeResult([]byte(`{"status": 3}`))
		var protocolErr *recipes.ProtocolError
		assert.True(t, errors.As(err, &protocolErr))
	})
}

func TestInterpret(t *testing.T) {
	_, err := recipes.Interpret(recipes.Failure{Message: "bad name"})
	var appErr *recipes.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "bad name", appErr.Error())

	data, err := recipes.Interpret(recipes.Success{Data: api.UploadData{}})
	require.NoError(t, err)
	assert.Nil(t, data.Model)
}

func TestComputeOutcome(t *testing.T) {
	tests := []struct {
		name     string
		data     api.UploadData
		policy   recipes.OutcomePolicy
		warnings []string
		advisory string
	}{
		{
			name: "DatasetNotDownloaded",
			data: api.UploadData{
				Model:   &api.AssetStatus{Path: "m1", Downloaded: true},
				Dataset: &api.AssetStatus{Path: "d1", Downloaded: false},
			},
			advisory: "download dataset d1",
		},
		{
			name: "BothNotDownloaded",
			data: api.UploadData{
				Model:   &api.AssetStatus{Path: "m1"},
				Dataset: &api.AssetStatus{Path: "d1"},
			},
			advisory: "download model m1, download dataset d1",
		},
		{
			name: "AllDownloaded",
			data: api.UploadData{
				Model:   &api.AssetStatus{Path: "m1", Downloaded: true},
				Dataset: &api.AssetStatus{Path: "d1", Downloaded: true},
			},
		},
		{
			name:     "EmptyDataIndependent",
			data:     api.UploadData{},
			policy:   recipes.IndependentChecks,
			warnings: []string{recipes.NoModelWarning, recipes.NoDatasetWarning},
		},
		{
			name:     "EmptyDataLegacy",
			data:     api.UploadData{},
			policy:   recipes.LegacyShortCircuit,
			warnings: []string{recipes.NoModelWarning},
		},
		{
			name: "EmptyModelPathLegacySkipsDataset",
			data: api.UploadData{
				Model:   &api.AssetStatus{Path: ""},
				Dataset: &api.AssetStatus{Path: "d1"},
			},
			policy:   recipes.LegacyShortCircuit,
			warnings: []string{recipes.NoModelWarning},
		},
		{
			name: "EmptyModelPathIndependent",
			data: api.UploadData{
				Model:   &api.AssetStatus{Path: ""},
				Dataset: &api.AssetStatus{Path: "d1"},
			},
			warnings: []string{recipes.NoModelWarning},
			advisory: "download dataset d1",
		},
		{
			name: "MissingDatasetLegacy",
			data: api.UploadData{
				Model: &api.AssetStatus{Path: "m1"},
			},
			policy:   recipes.LegacyShortCircuit,
			warnings: []string{recipes.NoDatasetWarning},
			advisory: "download model m1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := recipes.ComputeOutcome(tt.data, tt.policy)
			assert.Equal(t, tt.warnings, outcome.Warnings())
			assert.Equal(t, tt.advisory, outcome.Advisory())
		})
	}
}

func TestParseOutcomePolicy(t *testing.T) {
	policy, err := recipes.ParseOutcomePolicy("legacy")
	require.NoError(t, err)
	assert.Equal(t, recipes.LegacyShortCircuit, policy)

	policy, err = recipes.ParseOutcomePolicy("")
	require.NoError(t, err)
	assert.Equal(t, recipes.IndependentChecks, policy)

	_, err = recipes.ParseOutcomePolicy("random")
	assert.Error(t, err)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", recipes.ErrorKind(nil))
	assert.Equal(t, "file_read", recipes.ErrorKind(&recipes.FileReadError{Path: "a", Err: errors.New("x")}))
	assert.Equal(t, "transport", recipes.ErrorKind(&recipes.TransportError{Status: "Bad Gateway"}))
	assert.Equal(t, "application", recipes.ErrorKind(&recipes.ApplicationError{Message: "bad"}))
	assert.Equal(t, "protocol", recipes.ErrorKind(&recipes.ProtocolError{Detail: recipes.MissingDataDetail}))
	assert.Equal(t, "unknown", recipes.ErrorKind(errors.New("other")))
}
