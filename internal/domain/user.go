package domain

type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleAgencyOwner Role = "AGENCY_OWNER"
	RoleAgencyStaff Role = "AGENCY_STAFF"
	RoleAdmin       Role = "ADMIN"
)

func (r Role) Agency() bool {
	return r == RoleAgencyOwner || r == RoleAgencyStaff
}

type User struct {
	ID     int64
	Email  string
	Role   Role
	Active bool
}

// Actor identifies who is requesting a transition. AgencyID is zero unless
// the role is an agency role.
type Actor struct {
	UserID   int64
	Role     Role
	AgencyID int64
}
