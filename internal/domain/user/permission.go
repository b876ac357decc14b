package user

type Permission string

const (
	// Self service
	PermissionWorkRecordViewOwn Permission = "work_record.view_own"
	PermissionDashboardViewOwn  Permission = "dashboard.view_own"
	PermissionEventsSubscribe   Permission = "events.subscribe"

	// Work records
	PermissionWorkRecordViewAll Permission = "work_record.view_all"
	PermissionWorkRecordManage  Permission = "work_record.manage"

	// Payment batches
	PermissionBatchView   Permission = "batch.view"
	PermissionBatchManage Permission = "batch.manage"

	// Reps and performance sync
	PermissionCandidateManage   Permission = "candidate.manage"
	PermissionPerformanceManage Permission = "performance.manage"

	// Reports
	PermissionDashboardViewAll Permission = "dashboard.view_all"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionWorkRecordViewOwn,
		PermissionDashboardViewOwn,
		PermissionEventsSubscribe,
		PermissionWorkRecordViewAll,
		PermissionWorkRecordManage,
		PermissionBatchView,
		PermissionBatchManage,
		PermissionCandidateManage,
		PermissionPerformanceManage,
		PermissionDashboardViewAll,
	},
	RoleRep: {
		PermissionWorkRecordViewOwn,
		PermissionDashboardViewOwn,
		PermissionEventsSubscribe,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
