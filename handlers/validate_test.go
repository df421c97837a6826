package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRegistration() RegisterRequest {
	return RegisterRequest{
		FirstName:       "Jane",
		LastName:        "Smith",
		Email:           "jane.smith@gmail.com",
		ConfirmEmail:    "jane.smith@gmail.com",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	}
}

func TestValidateRegistration(t *testing.T) {
	assert.Empty(t, validateRegistration(validRegistration()))

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		want   string
	}{
		{"missing field", func(r *RegisterRequest) { r.Email = "" }, "All fields must be filled out."},
		{"short first name", func(r *RegisterRequest) { r.FirstName = "Jo" }, "First name must be at least 4 characters long."},
		{"short last name", func(r *RegisterRequest) { r.LastName = "Ng" }, "Last name must be at least 4 characters long."},
		{"wrong domain", func(r *RegisterRequest) {
			r.Email = "jane@example.com"
			r.ConfirmEmail = "jane@example.com"
		}, "Email address must end with @gmail.com."},
		{"email mismatch", func(r *RegisterRequest) { r.ConfirmEmail = "other@gmail.com" }, "Confirm email must match the email."},
		{"short password", func(r *RegisterRequest) {
			r.Password = "short"
			r.ConfirmPassword = "short"
		}, "Password must be at least 8 characters long."},
		{"password mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "different123" }, "Confirm password must match the password."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(&req)
			assert.Equal(t, tt.want, validateRegistration(req))
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.Empty(t, validateLogin("jane@gmail.com", "hunter2hunter2"))
	assert.Equal(t, "All fields must be filled out.", validateLogin("", "hunter2hunter2"))
	assert.Equal(t, "Email address must end with @gmail.com.", validateLogin("jane@example.com", "hunter2hunter2"))
	assert.Equal(t, "Password must be at least 8 characters long.", validateLogin("jane@gmail.com", "short"))
}

func TestValidateProfile(t *testing.T) {
	assert.Empty(t, validateProfile("Jane Smith", "I recycle every day"))
	assert.Equal(t, "Name must be at least 4 characters long.", validateProfile("Jo", "I recycle every day"))
	assert.Equal(t, "Bio must be at least 3 words long.", validateProfile("Jane Smith", "recycling fan"))
}

func TestValidatePost(t *testing.T) {
	assert.Empty(t, validatePost("Beach cleanup", "We picked up 12kg of litter", 3))
	assert.Equal(t, "At least 1 image is required.", validatePost("Beach cleanup", "caption", 0))
	assert.Equal(t, "Maximum 10 images allowed.", validatePost("Beach cleanup", "caption", 11))
	assert.Equal(t, "Caption must be filled.", validatePost("Beach cleanup", "", 1))
	assert.Equal(t, "Headline must be filled.", validatePost("", "caption", 1))

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	assert.Equal(t, "Headline must be at most 50 characters.", validatePost(string(long), "caption", 1))
}
