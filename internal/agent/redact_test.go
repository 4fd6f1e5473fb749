package agent

import "testing"

func TestRedactPII(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "email in sentence",
			input: "Contact alice@example.com for details",
			want:  "Contact [REDACTED_EMAIL] for details",
		},
		{
			name:  "ssn in sentence",
			input: "SSN is 123-45-6789 on file",
			want:  "SSN is [REDACTED_SSN] on file",
		},
		{
			name:  "phone in sentence",
			input: "Call 5551234567 tomorrow",
			want:  "Call [REDACTED_PHONE] tomorrow",
		},
		{
			name:  "all three at once",
			input: "alice@example.com 123-45-6789 5551234567",
			want:  "[REDACTED_EMAIL] [REDACTED_SSN] [REDACTED_PHONE]",
		},
		{
			name:  "nine digits untouched",
			input: "order 123456789 shipped",
			want:  "order 123456789 shipped",
		},
		{
			name:  "no pii untouched",
			input: "Task 3 for Project 1 is pending",
			want:  "Task 3 for Project 1 is pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RedactPII(tt.input)
			if got != tt.want {
				t.Errorf("RedactPII(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactPII_Idempotent(t *testing.T) {
	t.Parallel()

	input := "Reach bob@corp.io or 5559876543, SSN 987-65-4321"
	once := RedactPII(input)
	twice := RedactPII(once)

	if once != twice {
		t.Errorf("Redaction not idempotent: first %q, second %q", once, twice)
	}
}
