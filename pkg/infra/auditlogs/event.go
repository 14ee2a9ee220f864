package auditlogs

// Event is a tenant-scoped audit record, emitted only for endpoints that
// declare an audit action.
type Event struct {
	Action    string                 `json:"action"`
	CompanyID string                 `json:"companyId"`
	UserID    string                 `json:"userId"`
	IPAddress string                 `json:"ipAddress,omitempty"`
	UserAgent string                 `json:"userAgent,omitempty"`
	RequestID string                 `json:"requestId,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}
