package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/margav-energy/Pama-Lodge/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "InvalidPageParam",
			failure: failure.InvalidPageParam,
			code:    http.StatusBadRequest,
			message: "invalid page parameter",
		},
		{
			name:    "InvalidLimitParam",
			failure: failure.InvalidLimitParam,
			code:    http.StatusBadRequest,
			message: "invalid limit parameter",
		},
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			message: "You don't have the required permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:     "with error",
			input:    errors.New("validation failed"),
			expected: &failure.Failure{Code: http.StatusBadRequest, Message: "validation failed"},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
			} else {
				f, ok := result.(*failure.Failure)
				if !ok {
					t.Errorf("expected result to be *failure.Failure, got %T", result)
				} else {
					expectedF := tt.expected.(*failure.Failure)
					if f.Code != expectedF.Code || f.Message != expectedF.Message {
						t.Errorf("expected %+v, got %+v", expectedF, f)
					}
				}
			}
		})
	}
}

func TestFieldViolation(t *testing.T) {
	result := failure.FieldViolation("age", "Guest must be at least 18 years old to check in")

	f, ok := result.(*failure.Failure)
	if !ok {
		t.Fatalf("expected result to be *failure.Failure, got %T", result)
	}

	if f.Code != http.StatusBadRequest {
		t.Errorf("expected code to be %d, got %d", http.StatusBadRequest, f.Code)
	}

	if f.Fields["age"] != "Guest must be at least 18 years old to check in" {
		t.Errorf("expected field message for 'age', got %v", f.Fields)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		wantNil bool
	}{
		{
			name:    "with field errors",
			fields:  map[string]string{"momo_number": "Mobile Money number must be exactly 10 digits"},
			wantNil: false,
		},
		{
			name:    "empty map",
			fields:  map[string]string{},
			wantNil: true,
		},
		{
			name:    "nil map",
			fields:  nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.Validation(tt.fields)

			if tt.wantNil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}

				return
			}

			f, ok := result.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", result)
			}

			if len(f.Fields) != len(tt.fields) {
				t.Errorf("expected %d field messages, got %d", len(tt.fields), len(f.Fields))
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    failure.NotFound("booking not found"),
			expected: http.StatusNotFound,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("outer: %w", failure.Conflict("restore window has elapsed")),
			expected: http.StatusConflict,
		},
		{
			name:     "plain error",
			input:    errors.New("some error"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := failure.GetCode(tt.input); code != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, code)
			}
		})
	}
}

func TestGetFields(t *testing.T) {
	err := failure.FieldViolation("check_in_time", "Check-in time is 2:00 PM. Please select 2:00 PM or later.")

	fields := failure.GetFields(err)
	if fields == nil {
		t.Fatal("expected fields, got nil")
	}

	if _, ok := fields["check_in_time"]; !ok {
		t.Errorf("expected 'check_in_time' field message, got %v", fields)
	}

	if failure.GetFields(errors.New("plain")) != nil {
		t.Error("expected nil fields for plain error")
	}
}
