package domain

// Role names a coarse grant level assigned to an identity at registration
// or by a later grant. The set is closed; unknown values are rejected at
// the boundary.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleDoctor       Role = "Doctor"
	RoleNurse        Role = "Nurse"
	RoleMedicalStaff Role = "MedicalStaff"
	RolePatient      Role = "Patient"
	RoleClient       Role = "Client"
)

// AllRoles enumerates every valid role.
var AllRoles = []Role{
	RoleAdmin,
	RoleDoctor,
	RoleNurse,
	RoleMedicalStaff,
	RolePatient,
	RoleClient,
}

// ValidRole reports whether r is a member of the closed role enumeration.
func ValidRole(r Role) bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity is the authenticated user's profile held for the duration of a
// session. Roles is treated as a set: insertion order carries no meaning and
// duplicates are ignored by every consumer.
type Identity struct {
	ID             string `json:"id" bson:"id"`
	Email          string `json:"email" bson:"email"`
	Roles          []Role `json:"roles" bson:"roles"`
	PhoneNumber    string `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Identification string `json:"identification,omitempty" bson:"identification,omitempty"`
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(r Role) bool {
	if i == nil {
		return false
	}
	for _, have := range i.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// User is an account record in the embedded local directory. It is only
// used when the gateway runs in local auth mode; in remote mode the
// upstream clinic API owns accounts.
type User struct {
	ID             string `bson:"_id,omitempty"`
	Email          string `bson:"email"`
	PasswordHash   string `bson:"password_hash"`
	Roles          []Role `bson:"roles"`
	PhoneNumber    string `bson:"phone_number,omitempty"`
	Identification string `bson:"identification,omitempty"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}
