package permission

import "github.com/clinicore/console-api/internal/core/domain"

// NavigationModule is a sidebar entry candidate offered to the filter.
type NavigationModule struct {
	ID    domain.ModuleID `json:"id"`
	Label string          `json:"label"`
	Icon  string          `json:"icon,omitempty"`
}

// SettingsOption is a settings menu candidate. ID either matches a ModuleID
// one-to-one or belongs to the fixed always-visible exception list.
type SettingsOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// alwaysVisibleOptions are settings entries shown regardless of role.
var alwaysVisibleOptions = map[string]bool{
	"about": true,
}

// Evaluator derives effective permissions from an explicit role set. It is
// pure: no I/O, no stored state beyond the immutable table, and every call
// recomputes from the roles it is handed, so a role change is observed on
// the very next check.
type Evaluator struct {
	table *Table
}

// NewEvaluator returns an Evaluator over the given table.
func NewEvaluator(table *Table) *Evaluator {
	return &Evaluator{table: table}
}

// Can reports whether any role in the set grants the capability. An empty or
// nil role set and an unrecognized capability both yield false, never an
// error.
func (e *Evaluator) Can(roles []domain.Role, cap domain.Capability) bool {
	for _, role := range roles {
		if e.table.Grant(role).Capabilities[cap] {
			return true
		}
	}
	return false
}

// CanAccess reports whether the module appears in the union of module lists
// for the role set.
func (e *Evaluator) CanAccess(roles []domain.Role, module domain.ModuleID) bool {
	for _, role := range roles {
		for _, m := range e.table.Grant(role).Modules {
			if m == module {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether the role set contains the Admin role.
func (e *Evaluator) IsAdmin(roles []domain.Role) bool {
	for _, role := range roles {
		if role == domain.RoleAdmin {
			return true
		}
	}
	return false
}

// Modules returns the accessible module set for the role set, in the
// canonical sidebar order.
func (e *Evaluator) Modules(roles []domain.Role) []domain.ModuleID {
	out := make([]domain.ModuleID, 0, len(domain.AllModules))
	for _, m := range domain.AllModules {
		if e.CanAccess(roles, m) {
			out = append(out, m)
		}
	}
	return out
}

// Capabilities returns the complete effective capability map for the role
// set: one entry per enumerated capability, true where any role grants it.
func (e *Evaluator) Capabilities(roles []domain.Role) map[domain.Capability]bool {
	out := make(map[domain.Capability]bool, len(domain.AllCapabilities))
	for _, c := range domain.AllCapabilities {
		out[c] = e.Can(roles, c)
	}
	return out
}

// FilterModules returns the subset of candidates whose id is accessible to
// the role set. The filter is stable: input order is preserved, nothing is
// resorted.
func (e *Evaluator) FilterModules(candidates []NavigationModule, roles []domain.Role) []NavigationModule {
	out := make([]NavigationModule, 0, len(candidates))
	for _, m := range candidates {
		if e.CanAccess(roles, m.ID) {
			out = append(out, m)
		}
	}
	return out
}

// FilterOptions returns the subset of settings options visible to the role
// set, preserving input order. Options on the always-visible list pass
// unconditionally; every other option id must match an accessible module.
func (e *Evaluator) FilterOptions(options []SettingsOption, roles []domain.Role) []SettingsOption {
	out := make([]SettingsOption, 0, len(options))
	for _, o := range options {
		if alwaysVisibleOptions[o.ID] || e.CanAccess(roles, domain.ModuleID(o.ID)) {
			out = append(out, o)
		}
	}
	return out
}
