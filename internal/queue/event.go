package queue

import "time"

// auditQueueName is the durable queue that carries audit events for
// administrative destructive actions.
const auditQueueName = "audit.record_deleted"

// RecordDeletedEvent describes one record deletion performed by an admin.
// It duplicates the fields written to the audit_logs table so downstream
// consumers need no database access to render the event.
type RecordDeletedEvent struct {
	RecordID      uint64    `json:"record_id"`
	AdminID       uint64    `json:"admin_id"`
	AdminName     string    `json:"admin_name"`
	ServiceType   string    `json:"service_type"`
	LocationName  string    `json:"location_name"`
	ContractGroup string    `json:"contract_group"`
	DeletedAt     time.Time `json:"deleted_at"`
}
