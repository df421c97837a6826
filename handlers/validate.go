package handlers

import "strings"

// Validation mirrors the rules the mobile app enforced; they are repeated
// here because the server is now the authority.

func validateRegistration(req RegisterRequest) string {
	if req.FirstName == "" || req.LastName == "" ||
		req.Email == "" || req.ConfirmEmail == "" ||
		req.Password == "" || req.ConfirmPassword == "" {
		return "All fields must be filled out."
	}
	if len(req.FirstName) < 4 {
		return "First name must be at least 4 characters long."
	}
	if len(req.LastName) < 4 {
		return "Last name must be at least 4 characters long."
	}
	if !strings.HasSuffix(req.Email, "@gmail.com") {
		return "Email address must end with @gmail.com."
	}
	if req.Email != req.ConfirmEmail {
		return "Confirm email must match the email."
	}
	if len(req.Password) < 8 {
		return "Password must be at least 8 characters long."
	}
	if req.Password != req.ConfirmPassword {
		return "Confirm password must match the password."
	}
	return ""
}

func validateLogin(email, password string) string {
	if email == "" || password == "" {
		return "All fields must be filled out."
	}
	if !strings.HasSuffix(email, "@gmail.com") {
		return "Email address must end with @gmail.com."
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters long."
	}
	return ""
}

func validateProfile(fullName, bio string) string {
	if len(fullName) < 4 {
		return "Name must be at least 4 characters long."
	}
	if len(strings.Fields(bio)) < 3 {
		return "Bio must be at least 3 words long."
	}
	return ""
}

func validatePost(headline, caption string, mediaCount int) string {
	if mediaCount < 1 {
		return "At least 1 image is required."
	}
	if mediaCount > 10 {
		return "Maximum 10 images allowed."
	}
	if len(headline) > 50 {
		return "Headline must be at most 50 characters."
	}
	if caption == "" {
		return "Caption must be filled."
	}
	if headline == "" {
		return "Headline must be filled."
	}
	return ""
}
