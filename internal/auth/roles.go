package auth

import "github.com/spec-kit/helpdesk-access/internal/domain"

// Ordinal privilege levels. Roles absent from the table (the "staff" and
// "engineer" labels among them) resolve to LevelNone.
const (
	LevelNone        = 0
	LevelClient      = 1
	LevelSupportTech = 2
	LevelManager     = 3
	LevelAdmin       = 4
	LevelSuperAdmin  = 5
)

// roleLevels is the single source of truth for numeric role comparisons.
// Every level-based decision in the service routes through it.
var roleLevels = map[domain.Role]int{
	domain.RoleClient:      LevelClient,
	domain.RoleSupportTech: LevelSupportTech,
	domain.RoleManager:     LevelManager,
	domain.RoleAdmin:       LevelAdmin,
	domain.RoleSuperAdmin:  LevelSuperAdmin,
}

// Level returns the ordinal for a role, LevelNone for unrecognized roles.
// Total: never fails.
func Level(role domain.Role) int {
	return roleLevels[role]
}

// AtLeast reports whether role carries at least the privilege of required.
func AtLeast(role, required domain.Role) bool {
	return Level(role) >= Level(required)
}

// IsSuperAdmin matches super_admin exactly.
func IsSuperAdmin(role domain.Role) bool {
	return role == domain.RoleSuperAdmin
}

// IsAdmin is set membership over {admin, super_admin}, not a level check.
func IsAdmin(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleSuperAdmin
}

// IsManager is set membership over {manager, admin, super_admin}.
func IsManager(role domain.Role) bool {
	return role == domain.RoleManager || IsAdmin(role)
}

// IsStaff reports whether the role is staff-typed. It includes the "staff"
// and "engineer" labels even though those carry no level in roleLevels, so
// IsStaff and HasSupportTechLevel disagree for them. Both families are kept
// as-is; callers must pick the one that matches their intent.
func IsStaff(role domain.Role) bool {
	switch role {
	case domain.RoleStaff, domain.RoleSupportTech, domain.RoleEngineer,
		domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin:
		return true
	}
	return false
}

// HasAdminLevel is the numeric counterpart of IsAdmin (level >= 4).
func HasAdminLevel(role domain.Role) bool {
	return Level(role) >= LevelAdmin
}

// HasManagerLevel is the numeric counterpart of IsManager (level >= 3).
func HasManagerLevel(role domain.Role) bool {
	return Level(role) >= LevelManager
}

// HasSupportTechLevel reports level >= 2. Unlike IsStaff this excludes the
// "staff" and "engineer" labels.
func HasSupportTechLevel(role domain.Role) bool {
	return Level(role) >= LevelSupportTech
}
