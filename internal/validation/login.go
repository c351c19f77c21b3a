package validation

// LoginRequest is the body of POST /auth/login/{role}.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateLogin checks the shape of a login request. Password complexity is
// only enforced at registration.
func ValidateLogin(in LoginRequest) Result {
	var c collector

	c.field("email", emailRules(in.Email)...)
	c.field("password",
		func() string {
			if in.Password == "" {
				return "Password is required"
			}
			return ""
		},
		satisfies(in.Password, "min=8", "Password must be at least 8 characters"),
	)

	return c.result()
}
