package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email           string   `json:"email"            validate:"required,email"`
	Password        string   `json:"password"         validate:"required,min=8"`
	ConfirmPassword string   `json:"confirm_password" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles"            validate:"omitempty,dive,oneof=Admin Doctor Nurse MedicalStaff Patient Client"`
	PhoneNumber     string   `json:"phone_number"`
	Identification  string   `json:"identification"`
}

type identityResponse struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Roles          []string `json:"roles"`
	PhoneNumber    string   `json:"phone_number,omitempty"`
	Identification string   `json:"identification,omitempty"`
}

type authResponse struct {
	Token string           `json:"token"`
	User  identityResponse `json:"user"`
}

type sessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *identityResponse `json:"user,omitempty"`
}

// updateUserRequest is a shallow merge: absent fields (nil pointers / nil
// slice) leave the current value untouched.
type updateUserRequest struct {
	Email          *string  `json:"email"          validate:"omitempty,email"`
	PhoneNumber    *string  `json:"phone_number"`
	Identification *string  `json:"identification"`
	Roles          []string `json:"roles"          validate:"omitempty,dive,oneof=Admin Doctor Nurse MedicalStaff Patient Client"`
}

type permissionsResponse struct {
	Capabilities map[string]bool `json:"capabilities"`
	Modules      []string        `json:"modules"`
	IsAdmin      bool            `json:"is_admin"`
}

type capabilityCheckRequest struct {
	Capability string `json:"capability" validate:"required"`
}

type capabilityCheckResponse struct {
	Capability string `json:"capability"`
	Allowed    bool   `json:"allowed"`
}
