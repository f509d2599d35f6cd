package validator_test

import (
	"strings"
	"testing"

	"github.com/margav-energy/Pama-Lodge/shared/validator"
)

type testStruct struct {
	Name   string `validate:"required"                        json:"name"`
	Phone  string `validate:"required,numeric,len=10"         json:"phone"`
	Age    int    `validate:"omitempty,gte=18"                json:"age"`
	Status string `validate:"omitempty,oneof=pending authorized rejected" json:"status"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *testStruct
		expectError bool
	}{
		{
			name: "valid struct",
			data: &testStruct{
				Name:  "Yaw Owusu",
				Phone: "0244123456",
				Age:   25,
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &testStruct{
				Phone: "0244123456",
			},
			expectError: true,
		},
		{
			name: "phone with wrong length",
			data: &testStruct{
				Name:  "Yaw Owusu",
				Phone: "02441234",
			},
			expectError: true,
		},
		{
			name: "phone with letters",
			data: &testStruct{
				Name:  "Yaw Owusu",
				Phone: "02441234ab",
			},
			expectError: true,
		},
		{
			name: "underage",
			data: &testStruct{
				Name:  "Yaw Owusu",
				Phone: "0244123456",
				Age:   17,
			},
			expectError: true,
		},
		{
			name: "invalid status",
			data: &testStruct{
				Name:   "Yaw Owusu",
				Phone:  "0244123456",
				Status: "unknown",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected an error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("decodes and validates a body", func(t *testing.T) {
		var data testStruct

		body := `{"name":"Yaw Owusu","phone":"0244123456"}`

		if err := validator.Validate(strings.NewReader(body), &data); err != nil {
			t.Errorf("expected no error, got %v", err)
		}

		if data.Name != "Yaw Owusu" {
			t.Errorf("expected decoded name, got %q", data.Name)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		var data testStruct

		if err := validator.Validate(strings.NewReader("{not json"), &data); err == nil {
			t.Error("expected an error for malformed json")
		}
	})

	t.Run("rejects an invalid decoded struct", func(t *testing.T) {
		var data testStruct

		body := `{"name":"Yaw Owusu","phone":"123"}`

		if err := validator.Validate(strings.NewReader(body), &data); err == nil {
			t.Error("expected a validation error")
		}
	})
}
