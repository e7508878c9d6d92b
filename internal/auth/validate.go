package auth

import "strings"

// MinPasswordLength is the local password policy, checked before any remote
// call so policy failures never consume a signup attempt upstream.
const MinPasswordLength = 6

// ProfessionOther selects a free-form profession; the custom value is then
// required.
const ProfessionOther = "Other"

// SignUpInput carries a signup submission. Profession holds the selected
// option; CustomProfession the free-form value when "Other" was selected.
type SignUpInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	Profession       string
	CustomProfession string
}

// FinalProfession resolves the profession value that is actually stored.
func (in SignUpInput) FinalProfession() string {
	if in.Profession == ProfessionOther {
		return strings.TrimSpace(in.CustomProfession)
	}
	return in.Profession
}

// validateSignUp returns per-field errors, empty when the input is valid.
func validateSignUp(in SignUpInput) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.FirstName) == "" {
		errs["firstName"] = "first name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs["lastName"] = "last name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "email is required"
	}
	if in.Password == "" {
		errs["password"] = "password is required"
	} else if len(in.Password) < MinPasswordLength {
		errs["password"] = "password must be at least 6 characters"
	}
	if in.Profession == "" {
		errs["profession"] = "profession is required"
	} else if in.Profession == ProfessionOther && strings.TrimSpace(in.CustomProfession) == "" {
		errs["customProfession"] = "please specify your profession"
	}
	return errs
}

func validateCredentials(email, password string) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(email) == "" {
		errs["email"] = "email is required"
	}
	if password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

func validatePassword(password string) map[string]string {
	errs := map[string]string{}
	if password == "" {
		errs["password"] = "password is required"
	} else if len(password) < MinPasswordLength {
		errs["password"] = "password must be at least 6 characters"
	}
	return errs
}
