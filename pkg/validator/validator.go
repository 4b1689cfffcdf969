package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/vedran77/fitlog/internal/config"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateRegister(username, displayName, password string, policy config.PasswordPolicy) ValidationErrors {
	errs := make(ValidationErrors)

	// Username
	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}

	// Display name
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		errs.Add("display_name", "Display name is required")
	} else if len(displayName) > 100 {
		errs.Add("display_name", "Display name is too long")
	}

	// Password
	validatePassword(password, policy, errs)

	return errs
}

func ValidateLogin(username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(username) == "" {
		errs.Add("username", "Username is required")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateWorkout(description string) ValidationErrors {
	errs := make(ValidationErrors)

	description = strings.TrimSpace(description)
	if description == "" {
		errs.Add("description", "Description is required")
	} else if len(description) > 2000 {
		errs.Add("description", "Description is too long")
	}

	return errs
}

// validatePassword enforces the configured policy. Which character classes are
// required is a product decision, so it lives in config, not here.
func validatePassword(password string, policy config.PasswordPolicy, errs ValidationErrors) {
	if len(password) < policy.MinLength {
		errs.Add("password", fmt.Sprintf("Password must be at least %d characters", policy.MinLength))
		return
	}

	var hasUpper, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if policy.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if policy.RequireDigit && !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		errs.Add("password", fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", ")))
	}
}
