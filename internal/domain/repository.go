package domain

// WorkspaceRepository handles the persistence of scanner artifacts in the
// .aiscan/ directory: the audit trail and accumulated usage stats.
type WorkspaceRepository interface {
	Initialize() error
	IsInitialized() bool
	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
	UpdateUsage(stats UsageStats) error
	LoadUsage() (*UsageStats, error)
}

// AuditLogger records auditable actions with free-form metadata.
type AuditLogger interface {
	Log(action string, actor string, metadata map[string]interface{}) error
}
