package model

// Role tags the user variant.
type Role string

const (
	RoleCustomer      Role = "Customer"
	RoleAdministrator Role = "Administrator"
)

// User represents an ATM identity authenticated by login and PIN.
type User struct {
	ID      int64
	Login   string
	PinCode string
	Name    string
	Role    Role
	// AccountNumber links a customer to its account. Always nil for administrators.
	AccountNumber *int64
}

func (u User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

func (u User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}
