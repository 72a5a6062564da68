package contracts

import (
	"encoding/json"
	"time"
)

// Activity actions recorded in the activity log
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionUpload   = "UPLOAD"
	ActionDownload = "DOWNLOAD"
	ActionApprove  = "APPROVE"
	ActionReject   = "REJECT"
	ActionSchedule = "SCHEDULE"
	ActionComplete = "COMPLETE"
	ActionExport   = "EXPORT"
)

// ActivityEntry is one row of the activity log
// ⭐ SSOT: 사용자 행위 감사 로그
type ActivityEntry struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	UserName    string          `json:"user_name"`
	Action      string          `json:"action"`
	Resource    string          `json:"resource"`
	ResourceID  *int64          `json:"resource_id,omitempty"`
	Description string          `json:"description"`
	OldValues   json.RawMessage `json:"old_values,omitempty"`
	NewValues   json.RawMessage `json:"new_values,omitempty"`
	IPAddress   string          `json:"ip_address,omitempty"`
	UserAgent   string          `json:"user_agent,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	TimeAgo     string          `json:"time_ago,omitempty"`
}

// ReportTemplate is a saved report configuration
type ReportTemplate struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	ReportType  string          `json:"report_type" validate:"required"`
	Parameters  json.RawMessage `json:"parameters"`
	Filters     json.RawMessage `json:"filters"`
	CreatedBy   int64           `json:"created_by"`
}

// AnalyticsDashboard is a saved custom analytics layout
type AnalyticsDashboard struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	Widgets     json.RawMessage `json:"widgets"`
	Layout      json.RawMessage `json:"layout"`
	Filters     json.RawMessage `json:"filters"`
	CreatedBy   int64           `json:"created_by"`
}
