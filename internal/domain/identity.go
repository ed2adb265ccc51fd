package domain

// Role is the account role assigned at registration. The backend owns the
// value; anything outside the three known roles falls through to the
// permissive navigation defaults.
type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
	RoleAdmin    Role = "admin"
)

// Known reports whether the role is one the backend is supposed to issue.
func (r Role) Known() bool {
	switch r {
	case RoleDonor, RoleReceiver, RoleAdmin:
		return true
	}
	return false
}

// Identity is the authenticated user's profile as cached client-side. It is
// created from login/registration responses and owned by the auth manager;
// the session store keeps a redundant serialized copy for reload survival.
type Identity struct {
	ID         string `json:"_id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsPremium  bool   `json:"isPremium"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// IdentityPatch carries partial identity updates (profile edit, premium
// upgrade). Nil fields are left untouched by Merge.
type IdentityPatch struct {
	FullName   *string
	Role       *Role
	IsPremium  *bool
	ProfilePic *string
}

// Merge applies the patch to a copy of id and returns it.
func (p IdentityPatch) Merge(id Identity) Identity {
	if p.FullName != nil {
		id.FullName = *p.FullName
	}
	if p.Role != nil {
		id.Role = *p.Role
	}
	if p.IsPremium != nil {
		id.IsPremium = *p.IsPremium
	}
	if p.ProfilePic != nil {
		id.ProfilePic = *p.ProfilePic
	}
	return id
}
