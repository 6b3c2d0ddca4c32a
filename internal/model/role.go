package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the closed set of user profiles known to the system.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleSalesperson Role = "salesperson"
	RoleFinance     Role = "finance"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleSalesperson, RoleFinance}

// ParseRole converts a token claim or request value into a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Capability is a single action a role may be granted.
type Capability string

const (
	CapCreateSale        Capability = "sales.create"
	CapViewAllSales      Capability = "sales.read_all"
	CapChangeSaleStatus  Capability = "sales.status"
	CapDeleteSale        Capability = "sales.delete"
	CapManageCommissions Capability = "commissions.write"
	CapApproveMarketing  Capability = "marketing.approve"
	CapManageUsers       Capability = "users.write"
	CapListUsers         Capability = "users.read"
	CapViewAudit         Capability = "audit.read"
	CapManageBackups     Capability = "backups.write"
)

// capabilityTable is the only place role permissions are declared.
var capabilityTable = map[Role][]Capability{
	RoleAdmin: {
		CapCreateSale, CapViewAllSales, CapChangeSaleStatus, CapDeleteSale,
		CapManageCommissions, CapApproveMarketing, CapManageUsers, CapListUsers, CapViewAudit,
		CapManageBackups,
	},
	RoleManager: {
		CapCreateSale, CapViewAllSales, CapChangeSaleStatus,
		CapManageCommissions, CapApproveMarketing, CapListUsers, CapViewAudit,
	},
	RoleFinance: {
		CapViewAllSales, CapManageCommissions, CapViewAudit,
	},
	RoleSalesperson: {
		CapCreateSale,
	},
}

// Can reports whether the role holds capability c.
func (r Role) Can(c Capability) bool {
	for _, granted := range capabilityTable[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// Capabilities returns the capability codes granted to the role.
func (r Role) Capabilities() []Capability {
	caps := capabilityTable[r]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// RolesWith returns every role granted capability c.
func RolesWith(c Capability) []Role {
	var out []Role
	for _, r := range Roles {
		if r.Can(c) {
			out = append(out, r)
		}
	}
	return out
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Can reports whether the actor's role holds capability c.
func (a Actor) Can(c Capability) bool { return a.Role.Can(c) }
