package domain

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleSupportTech Role = "support_tech"
	RoleStaff       Role = "staff"
	RoleEngineer    Role = "engineer"
	RoleClient      Role = "client"
)
