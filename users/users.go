package users

import "time"

// RoleType represents a user's role on the platform. The constant values are
// the wire values used by the backend.
type RoleType string

const (
	RoleTraveler RoleType = "voyageur"   // Books and rides trips
	RoleCompany  RoleType = "compagnie"  // Manages a bus company, its fleet and trips
	RoleAgent    RoleType = "embarqueur" // Boarding agent, validates tickets by QR code
	RoleAdmin    RoleType = "admin"      // Platform administrator
)

type User struct {
	ID          string     `json:"id,omitempty"`           // Unique identifier for the user
	Email       string     `json:"email,omitempty"`        // User's email address
	FirstName   string     `json:"first_name,omitempty"`   // First name of the user
	LastName    string     `json:"last_name,omitempty"`    // Last name of the user
	FullName    string     `json:"full_name,omitempty"`    // Backend-computed display name
	PhoneNumber string     `json:"phone_number,omitempty"` // Mobile Money capable number (+225...)
	Role        RoleType   `json:"role,omitempty"`
	RoleDisplay string     `json:"role_display,omitempty"`
	Active      bool       `json:"is_active,omitempty"`
	Verified    bool       `json:"is_verified,omitempty"`
	CompanyID   *string    `json:"company,omitempty"`      // Set for company staff
	CompanyName *string    `json:"company_name,omitempty"` // Set for company staff
	Avatar      *string    `json:"avatar,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// DisplayName prefers the backend-computed full name, falling back to the
// name parts, then the email address.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.FirstName != "" || u.LastName != "" {
		name := u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
		return name
	}
	return u.Email
}

// IsCompanyStaff reports whether the user acts on behalf of a bus company.
func (u *User) IsCompanyStaff() bool {
	return u.Role == RoleCompany || u.Role == RoleAgent
}
