package domain

// Capability is a single named boolean permission over a console affordance.
// The enumeration is closed and known at build time; it is never extended at
// runtime.
type Capability string

const (
	CapCreateDepartments Capability = "create_departments"
	CapEditDepartments   Capability = "edit_departments"
	CapDeleteDepartments Capability = "delete_departments"
	CapExportDepartments Capability = "export_departments"

	CapCreateStaff Capability = "create_staff"
	CapEditStaff   Capability = "edit_staff"
	CapDeleteStaff Capability = "delete_staff"

	CapCreateMedications Capability = "create_medications"
	CapEditMedications   Capability = "edit_medications"
	CapDeleteMedications Capability = "delete_medications"
	CapExportMedications Capability = "export_medications"

	CapCreateEmergencyGuards Capability = "create_emergency_guards"
	CapEditEmergencyGuards   Capability = "edit_emergency_guards"
	CapDeleteEmergencyGuards Capability = "delete_emergency_guards"

	CapViewReports   Capability = "view_reports"
	CapExportReports Capability = "export_reports"

	CapManageConsultations Capability = "manage_consultations"
	CapManageWarehouse     Capability = "manage_warehouse"
	CapManageUsers         Capability = "manage_users"
)

// AllCapabilities is the full capability enumeration in a stable order.
var AllCapabilities = []Capability{
	CapCreateDepartments,
	CapEditDepartments,
	CapDeleteDepartments,
	CapExportDepartments,
	CapCreateStaff,
	CapEditStaff,
	CapDeleteStaff,
	CapCreateMedications,
	CapEditMedications,
	CapDeleteMedications,
	CapExportMedications,
	CapCreateEmergencyGuards,
	CapEditEmergencyGuards,
	CapDeleteEmergencyGuards,
	CapViewReports,
	CapExportReports,
	CapManageConsultations,
	CapManageWarehouse,
	CapManageUsers,
}

// ModuleID identifies a top-level navigable section of the console.
type ModuleID string

const (
	ModuleDashboard     ModuleID = "dashboard"
	ModulePatients      ModuleID = "patients"
	ModuleConsultations ModuleID = "consultations"
	ModuleEmergency     ModuleID = "emergency"
	ModuleDepartments   ModuleID = "departments"
	ModuleStaff         ModuleID = "staff"
	ModuleMedications   ModuleID = "medications"
	ModuleWarehouse     ModuleID = "warehouse"
	ModuleReports       ModuleID = "reports"
)

// AllModules lists every module in sidebar order. Navigation filters must
// preserve this order.
var AllModules = []ModuleID{
	ModuleDashboard,
	ModulePatients,
	ModuleConsultations,
	ModuleEmergency,
	ModuleDepartments,
	ModuleStaff,
	ModuleMedications,
	ModuleWarehouse,
	ModuleReports,
}
