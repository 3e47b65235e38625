package staff

// Role orders what a staff member may do with the waitlist.
// receptionist < groomer < manager
type Role string

const (
	RoleReceptionist Role = "receptionist"
	RoleGroomer      Role = "groomer"
	RoleManager      Role = "manager"
)

var roleRank = map[Role]int{
	RoleReceptionist: 1,
	RoleGroomer:      2,
	RoleManager:      3,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks at or above min. Unknown roles never qualify.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[min]
	return ok && have >= want
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
