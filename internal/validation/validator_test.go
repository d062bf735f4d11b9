// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package validation

import (
	"strings"
	"testing"
)

// ===================================================================================================
// Singleton Validator Tests
// ===================================================================================================

func TestGetValidator_Singleton(t *testing.T) {
	// Test that GetValidator returns the same instance
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// ===================================================================================================
// ValidateStruct Tests
// ===================================================================================================

// listRequest mirrors the IOC listing query parameters.
type listRequest struct {
	Limit         int    `validate:"min=1,max=1000"`
	Skip          int    `validate:"min=0"`
	MinConfidence int    `validate:"min=0,max=100"`
	Cursor        string `validate:"omitempty,base64url"`
}

// exportRequest mirrors the export endpoint parameters.
type exportRequest struct {
	Format string `validate:"required,oneof=json stix csv txt elastic"`
	Limit  int    `validate:"min=1,max=10000"`
}

// enrichRequest mirrors the admin on-demand enrichment body.
type enrichRequest struct {
	IPs []string `validate:"required,min=1,max=10,dive,ip"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{
			name:  "typical list request",
			input: &listRequest{Limit: 100, Skip: 0, MinConfidence: 50},
		},
		{
			name:  "list request boundary values",
			input: &listRequest{Limit: 1000, Skip: 0, MinConfidence: 100},
		},
		{
			name:  "list request with cursor",
			input: &listRequest{Limit: 100, Cursor: "eyJnZW4iOjF9"},
		},
		{
			name:  "stix export",
			input: &exportRequest{Format: "stix", Limit: 1000},
		},
		{
			name:  "elastic export at max limit",
			input: &exportRequest{Format: "elastic", Limit: 10000},
		},
		{
			name:  "single ip enrich",
			input: &enrichRequest{IPs: []string{"203.0.113.9"}},
		},
		{
			name:  "ipv6 enrich",
			input: &enrichRequest{IPs: []string{"2001:db8::1", "198.51.100.7"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{
			name:      "limit too low",
			input:     &listRequest{Limit: 0},
			wantField: "Limit",
			wantTag:   "min",
		},
		{
			name:      "limit too high",
			input:     &listRequest{Limit: 2000},
			wantField: "Limit",
			wantTag:   "max",
		},
		{
			name:      "negative skip",
			input:     &listRequest{Limit: 100, Skip: -1},
			wantField: "Skip",
			wantTag:   "min",
		},
		{
			name:      "confidence above 100",
			input:     &listRequest{Limit: 100, MinConfidence: 150},
			wantField: "MinConfidence",
			wantTag:   "max",
		},
		{
			name:      "cursor not base64url",
			input:     &listRequest{Limit: 100, Cursor: "not/valid+cursor"},
			wantField: "Cursor",
			wantTag:   "base64url",
		},
		{
			name:      "unknown export format",
			input:     &exportRequest{Format: "xml", Limit: 100},
			wantField: "Format",
			wantTag:   "oneof",
		},
		{
			name:      "empty ip list",
			input:     &enrichRequest{IPs: []string{}},
			wantField: "IPs",
			wantTag:   "min",
		},
		{
			name:      "too many ips",
			input:     &enrichRequest{IPs: make([]string, 11)},
			wantField: "IPs",
			wantTag:   "max",
		},
		{
			name:      "malformed ip element",
			input:     &enrichRequest{IPs: []string{"203.0.113.9", "not-an-ip"}},
			wantField: "IPs[1]",
			wantTag:   "ip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			errs := err.Errors()
			if len(errs) == 0 {
				t.Fatal("Expected at least one validation error")
			}

			found := false
			for _, fieldErr := range errs {
				if fieldErr.Field() == tt.wantField && fieldErr.Tag() == tt.wantTag {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Expected error on field %q with tag %q, got %v", tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	// Both limit and confidence out of range
	input := &listRequest{Limit: 0, MinConfidence: 500}

	err := ValidateStruct(input)
	if err == nil {
		t.Fatal("ValidateStruct() should have returned an error")
	}

	if len(err.Errors()) != 2 {
		t.Errorf("Expected 2 validation errors, got %d: %v", len(err.Errors()), err)
	}
}

// ===================================================================================================
// Error Message Translation Tests
// ===================================================================================================

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		wantMsg string
	}{
		{
			name:    "min message",
			input:   &listRequest{Limit: 0},
			wantMsg: "Limit must be at least 1",
		},
		{
			name:    "max message",
			input:   &listRequest{Limit: 9999},
			wantMsg: "Limit must be at most 1000",
		},
		{
			name:    "oneof message includes allowed values",
			input:   &exportRequest{Format: "xml", Limit: 10},
			wantMsg: "Format must be one of: json stix csv txt elastic",
		},
		{
			name:    "ip message",
			input:   &enrichRequest{IPs: []string{"999.999.999.999"}},
			wantMsg: "must be a valid IP address",
		},
		{
			name:    "base64url message",
			input:   &listRequest{Limit: 10, Cursor: "a b c"},
			wantMsg: "Cursor must be valid base64url encoded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected message containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

// ===================================================================================================
// ToAPIError Tests
// ===================================================================================================

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&listRequest{Limit: 0})
	if err == nil {
		t.Fatal("ValidateStruct() should have returned an error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Message != "Limit must be at least 1" {
		t.Errorf("Unexpected message: %s", apiErr.Message)
	}
	if apiErr.Details["field"] != "Limit" {
		t.Errorf("Expected field detail Limit, got %v", apiErr.Details["field"])
	}
	if apiErr.Details["tag"] != "min" {
		t.Errorf("Expected tag detail min, got %v", apiErr.Details["tag"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&listRequest{Limit: 0, MinConfidence: 500})
	if err == nil {
		t.Fatal("ValidateStruct() should have returned an error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	// Combined message names every failed field
	if !strings.Contains(apiErr.Message, "Limit") || !strings.Contains(apiErr.Message, "MinConfidence") {
		t.Errorf("Expected combined message naming both fields, got %s", apiErr.Message)
	}

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Expected fields detail slice, got %T", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("Expected 2 field details, got %d", len(fields))
	}
}

func TestToAPIError_Empty(t *testing.T) {
	ve := &RequestValidationError{}
	apiErr := ve.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if apiErr.Message != "Validation failed" {
		t.Errorf("Unexpected fallback message: %s", apiErr.Message)
	}
}
