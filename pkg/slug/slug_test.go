// Copyright (c) 2026 Carbongold. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carbongold/documents/pkg/slug"
)

/*
TestFrom covers the normalization pipeline end to end.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Carbon Offset Methodology", "carbon-offset-methodology"},
		{"accents", "Métodologie forestière", "metodologie-forestiere"},
		{"punctuation", "Q3 Report: 2026 (final)", "q3-report-2026-final"},
		{"collapsed_hyphens", "a -- b", "a-b"},
		{"trimmed", "  leading and trailing  ", "leading-and-trailing"},
		{"empty", "", ""},
		{"symbols_only", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
