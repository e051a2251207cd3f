// Package permission holds the static role → capability/module table and the
// pure evaluator that derives effective permissions from a role set.
package permission

import (
	"fmt"

	"github.com/clinicore/console-api/internal/core/domain"
)

// Grant is the fully expanded permission record for a single role: a complete
// capability map (one entry per enumerated capability) and the ordered list of
// modules the role may navigate to.
type Grant struct {
	Capabilities map[domain.Capability]bool
	Modules      []domain.ModuleID
}

// roleGrant is the compact construction form: only granted capabilities are
// listed, NewTable expands them into complete records.
type roleGrant struct {
	caps    []domain.Capability
	modules []domain.ModuleID
}

// defaultGrants is the source of truth for what each role may do. Rules are
// a static table, not user-configurable.
var defaultGrants = map[domain.Role]roleGrant{
	domain.RoleAdmin: {
		caps:    domain.AllCapabilities,
		modules: domain.AllModules,
	},
	domain.RoleDoctor: {
		caps: []domain.Capability{
			domain.CapEditMedications,
			domain.CapCreateEmergencyGuards,
			domain.CapEditEmergencyGuards,
			domain.CapViewReports,
			domain.CapExportReports,
			domain.CapManageConsultations,
		},
		modules: []domain.ModuleID{
			domain.ModuleDashboard,
			domain.ModulePatients,
			domain.ModuleConsultations,
			domain.ModuleEmergency,
			domain.ModuleMedications,
			domain.ModuleReports,
		},
	},
	domain.RoleNurse: {
		caps: []domain.Capability{
			domain.CapEditEmergencyGuards,
			domain.CapManageConsultations,
		},
		modules: []domain.ModuleID{
			domain.ModuleDashboard,
			domain.ModulePatients,
			domain.ModuleConsultations,
			domain.ModuleEmergency,
			domain.ModuleMedications,
		},
	},
	domain.RoleMedicalStaff: {
		caps: []domain.Capability{
			domain.CapCreateMedications,
			domain.CapEditMedications,
			domain.CapExportMedications,
			domain.CapExportDepartments,
			domain.CapManageWarehouse,
		},
		modules: []domain.ModuleID{
			domain.ModuleDashboard,
			domain.ModulePatients,
			domain.ModuleDepartments,
			domain.ModuleStaff,
			domain.ModuleMedications,
			domain.ModuleWarehouse,
		},
	},
	domain.RolePatient: {
		caps: nil,
		modules: []domain.ModuleID{
			domain.ModuleDashboard,
			domain.ModuleConsultations,
		},
	},
	domain.RoleClient: {
		caps: nil,
		modules: []domain.ModuleID{
			domain.ModuleDashboard,
		},
	},
}

// Table maps every role to its Grant. Instances are immutable after
// construction and safe for concurrent reads.
type Table struct {
	grants map[domain.Role]Grant
}

// NewTable expands and validates grants into a Table. Construction fails when
// a role is missing, an unknown role/capability/module appears, or a module
// list contains duplicates, so an invalid table can never be served.
func NewTable(grants map[domain.Role]roleGrant) (*Table, error) {
	expanded := make(map[domain.Role]Grant, len(grants))

	for role, rg := range grants {
		if !domain.ValidRole(role) {
			return nil, fmt.Errorf("permission table: unknown role %q", role)
		}

		caps := make(map[domain.Capability]bool, len(domain.AllCapabilities))
		for _, c := range domain.AllCapabilities {
			caps[c] = false
		}
		for _, c := range rg.caps {
			if _, known := caps[c]; !known {
				return nil, fmt.Errorf("permission table: role %q grants unknown capability %q", role, c)
			}
			caps[c] = true
		}

		seen := make(map[domain.ModuleID]bool, len(rg.modules))
		modules := make([]domain.ModuleID, 0, len(rg.modules))
		for _, m := range rg.modules {
			if !knownModule(m) {
				return nil, fmt.Errorf("permission table: role %q lists unknown module %q", role, m)
			}
			if seen[m] {
				return nil, fmt.Errorf("permission table: role %q lists module %q twice", role, m)
			}
			seen[m] = true
			modules = append(modules, m)
		}

		expanded[role] = Grant{Capabilities: caps, Modules: modules}
	}

	for _, role := range domain.AllRoles {
		if _, ok := expanded[role]; !ok {
			return nil, fmt.Errorf("permission table: role %q has no grant record", role)
		}
	}

	return &Table{grants: expanded}, nil
}

// MustDefault returns the built-in table, panicking on construction failure.
// A broken default table is a programming error caught at startup.
func MustDefault() *Table {
	t, err := NewTable(defaultGrants)
	if err != nil {
		panic(err)
	}
	return t
}

// Grant returns the complete record for a role. The zero Grant (nil maps,
// empty modules) is returned for roles outside the enumeration.
func (t *Table) Grant(role domain.Role) Grant {
	return t.grants[role]
}

func knownModule(m domain.ModuleID) bool {
	for _, known := range domain.AllModules {
		if m == known {
			return true
		}
	}
	return false
}
