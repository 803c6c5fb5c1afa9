// Copyright (c) 2026 Carbongold. All rights reserved.

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/respond"
)

/*
TestLegacy_BarePayloads writes flat JSON with no envelope, always 200.
*/
func TestLegacy_BarePayloads(t *testing.T) {
	tests := []struct {
		name     string
		payload  interface{}
		expected string
	}{
		{"boolean_true", true, "true\n"},
		{"boolean_false", false, "false\n"},
		{"empty_array", []string{}, "[]\n"},
		{"object", map[string]string{"id": "abc"}, "{\"id\":\"abc\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Legacy(recorder, tt.payload)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.expected, recorder.Body.String())
		})
	}
}

/*
TestLegacyError_ExpectedFailures travel as 200 with a flat error message.
*/
func TestLegacyError_ExpectedFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"validation", apperr.ValidationError("a file is required")},
		{"business_rule", apperr.BusinessRule("You have already reviewed this document")},
		{"not_found", apperr.NotFound("Document")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/document/review/submit", nil)

			respond.LegacyError(recorder, request, tt.err)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.JSONEq(t,
				`{"error": "`+apperr.As(tt.err).Message+`"}`,
				recorder.Body.String())
		})
	}
}

/*
TestLegacyError_InternalStays500 never converts a server fault into a success.
*/
func TestLegacyError_InternalStays500(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/document/review/submit", nil)

	respond.LegacyError(recorder, request, errors.New("pool exhausted"))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "error")
	assert.NotContains(t, recorder.Body.String(), "pool exhausted")
}
