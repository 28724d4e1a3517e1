package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test struct with validation tags
type TestSignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Feature: storefront, Property 48: Required field validation works
// Validates: Requirements 18.2
func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeNameField bool, includeEmailField bool, includePasswordField bool) bool {
			// Create request with some fields missing
			reqMap := make(map[string]interface{})

			if includeNameField {
				reqMap["name"] = "Jane Doe"
			}
			if includeEmailField {
				reqMap["email"] = "jane@example.com"
			}
			if includePasswordField {
				reqMap["password"] = "secret123"
			}

			// If all fields are present, this should pass validation
			allFieldsPresent := includeNameField && includeEmailField && includePasswordField

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq TestSignupRequest
			err := DecodeAndValidate(req, &testReq)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that validation errors are properly formatted
func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func() bool {
			// Create request with invalid email
			reqMap := map[string]interface{}{
				"name":     "Jane Doe",
				"email":    "invalid-email", // Invalid email format
				"password": "secret123",
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq TestSignupRequest
			err := DecodeAndValidate(req, &testReq)

			if err == nil {
				return false // Should have validation error
			}

			// Format the errors
			validationErrors := FormatValidationErrors(err)

			// Should have at least one error
			if len(validationErrors) == 0 {
				return false
			}

			// Each error should have a field and message
			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test password length validation
func TestProperty_PasswordLengthValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords shorter than six characters are rejected", prop.ForAll(
		func(password string) bool {
			reqMap := map[string]interface{}{
				"name":     "Jane Doe",
				"email":    "jane@example.com",
				"password": password,
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq TestSignupRequest
			err := DecodeAndValidate(req, &testReq)

			if len(password) >= 6 {
				return err == nil
			}
			return err != nil
		},
		gen.RegexMatch(`[A-Za-z0-9]{1,12}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_MalformedJSONRejected(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`{"name":`)))
	req.Header.Set("Content-Type", "application/json")

	var testReq TestSignupRequest
	if err := DecodeAndValidate(req, &testReq); err == nil {
		t.Error("expected error for malformed JSON body")
	}
}
