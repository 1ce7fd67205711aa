package validator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const MinPasswordLength = 8

var (
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	timeSlotRegex = regexp.MustCompile(`(?i)^(\d{1,2}):[0-5]\d\s?(AM|PM)$`)
	otpRegex      = regexp.MustCompile(`^[0-9]{6}$`)
)

func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(CleanPhone(phone))
}

// CleanPhone drops everything except digits and the plus sign.
func CleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)
}

// ValidatePassword enforces the sign-up policy: at least eight characters
// with an upper-case letter, a lower-case letter and a digit.
func ValidatePassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	return upper && lower && digit
}

// ValidateTimeSlot accepts 12-hour clock values such as "11:00 AM" or "1:30pm".
func ValidateTimeSlot(value string) bool {
	m := timeSlotRegex.FindStringSubmatch(value)
	if m == nil {
		return false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}

	return hour >= 1 && hour <= 12
}

func ValidateOTP(code string) bool {
	return otpRegex.MatchString(code)
}
