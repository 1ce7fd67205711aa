package domain

import "testing"

func TestValidateBasic(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *BasicIdentity)
		wantKey string
		wantMsg string
	}{
		{"valid", func(b *BasicIdentity) {}, "", ""},
		{"password mismatch", func(b *BasicIdentity) { b.ConfirmPassword = "Secret124" }, "confirmPassword", "Passwords do not match"},
		{"weak password", func(b *BasicIdentity) { b.Password, b.ConfirmPassword = "secret", "secret" }, "password", ""},
		{"terms not accepted", func(b *BasicIdentity) { b.AgreeToTerms = false }, "agreeToTerms", "You must agree to the terms and conditions"},
		{"missing phone", func(b *BasicIdentity) { b.PhoneNumber = "" }, "phoneNumber", "This field is required"},
		{"bad phone", func(b *BasicIdentity) { b.PhoneNumber = "call me" }, "phoneNumber", "Invalid phone number"},
		{"bad email", func(b *BasicIdentity) { b.Email = "jane" }, "email", "Invalid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBasic()
			tt.mutate(&b)
			errs := ValidateBasic(b)

			if tt.wantKey == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			msg, ok := errs[tt.wantKey]
			if !ok {
				t.Fatalf("expected error on %q, got %v", tt.wantKey, errs)
			}
			if tt.wantMsg != "" && msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateProfessionalFlagsEveryInvalidSlot(t *testing.T) {
	p := validProfessional()
	p.Availability = []Availability{
		{Day: "Monday", Slots: []TimeSlot{
			{StartTime: "11:00 AM", EndTime: "01:00 PM"},
			{StartTime: "23:00", EndTime: "01:00 PM"},
		}},
		{Day: "Friday", Slots: []TimeSlot{
			{StartTime: "09:00 am", EndTime: "11:00"},
		}},
	}

	errs := ValidateProfessional(p)

	for _, key := range []string{
		"availability[0].slots[1].startTime",
		"availability[1].slots[0].endTime",
	} {
		if _, ok := errs[key]; !ok {
			t.Errorf("expected error on %s, got %v", key, errs)
		}
	}
	if len(errs) != 2 {
		t.Errorf("expected exactly 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateProfessionalRules(t *testing.T) {
	p := validProfessional()
	p.Gender = "unknown"
	p.YearsOfExperience = 51
	p.Skills = append(p.Skills, Skill{})
	p.Availability = append(p.Availability, Availability{Day: "Someday", Slots: []TimeSlot{}})
	p.DateOfBirth = "12/04/1990"

	errs := ValidateProfessional(p)

	for _, key := range []string{
		"gender",
		"yearsOfExperience",
		"skills[1].skillName",
		"availability[1].day",
		"availability[1].slots",
		"dateOfBirth",
	} {
		if _, ok := errs[key]; !ok {
			t.Errorf("expected error on %s, got %v", key, errs)
		}
	}
}

func TestValidateDraft(t *testing.T) {
	d := NewRegistrationDraft("d1", testNow)
	errs := ValidateDraft(d)
	if _, ok := errs["basic"]; !ok {
		t.Errorf("expected basic error on empty draft, got %v", errs)
	}

	b := validBasic()
	d.Basic = &b
	d.Professional = validProfessional()
	if errs := ValidateDraft(d); len(errs) != 0 {
		t.Errorf("expected valid draft, got %v", errs)
	}

	if err := (FieldErrors{}).Err(); err != nil {
		t.Errorf("empty FieldErrors.Err() = %v, want nil", err)
	}
	if err := (FieldErrors{"x": "y"}).Err(); err == nil {
		t.Error("non-empty FieldErrors.Err() = nil")
	}
}
