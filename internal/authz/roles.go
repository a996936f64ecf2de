package authz

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)
