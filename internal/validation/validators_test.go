package validation

import "testing"

func TestValidateDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid date", value: "2025-06-10", wantErr: false},
		{name: "invalid month", value: "2025-13-01", wantErr: true},
		{name: "not a date", value: "tomorrow", wantErr: true},
		{name: "wrong format", value: "10/06/2025", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateDate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStruct_DateTag(t *testing.T) {
	t.Parallel()

	type payload struct {
		Due string `validate:"required,date"`
	}

	if err := Validate.Struct(payload{Due: "2025-01-31"}); err != nil {
		t.Errorf("Expected valid date to pass, got %v", err)
	}
	if err := Validate.Struct(payload{Due: "soon"}); err == nil {
		t.Error("Expected malformed date to fail validation")
	}
}
