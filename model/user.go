package model

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the login response: the bearer token plus the identity
// the booking and chat flows need.
type LoginResult struct {
	Token  string `json:"token"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	UserID int64  `json:"userID"`
}

// Registration is the register request body.
type Registration struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
}
