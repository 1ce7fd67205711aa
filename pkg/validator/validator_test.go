package validator

import "testing"

func TestValidateTimeSlot(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"11:00 AM", true},
		{"11:00 am", true},
		{"01:00 PM", true},
		{"1:30PM", true},
		{"12:59 pm", true},
		{"23:00", false},
		{"11:00", false},
		{"25:00 AM", false},
		{"0:30 AM", false},
		{"13:00 PM", false},
		{"11:60 AM", false},
		{"11:00  AM", false},
		{"", false},
		{" 11:00 AM", false},
	}

	for _, tt := range tests {
		if got := ValidateTimeSlot(tt.in); got != tt.want {
			t.Errorf("ValidateTimeSlot(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Secret123", true},
		{"secret123", false},
		{"SECRET123", false},
		{"SecretPass", false},
		{"Sec123", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidatePassword(tt.in); got != tt.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	if got := CleanPhone("+1 (888) 000-0000"); got != "+18880000000" {
		t.Errorf("CleanPhone = %q", got)
	}
	if !ValidatePhone("+1 (888) 000-0000") {
		t.Error("expected formatted phone to be valid")
	}
	if ValidatePhone("12345") {
		t.Error("expected short phone to be invalid")
	}
}

func TestValidateOTP(t *testing.T) {
	if !ValidateOTP("123456") {
		t.Error("expected six digits to be valid")
	}
	for _, code := range []string{"12345", "1234567", "12a456", ""} {
		if ValidateOTP(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}
