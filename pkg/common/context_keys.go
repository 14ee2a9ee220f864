package common

type contextKey string

const (
	RequestIDContextKey contextKey = "request_id"
	StartTimeContextKey contextKey = "__start_time"
	PrincipalContextKey contextKey = "principal"
	CompanyContextKey   contextKey = "company_id"
	TrustedContextKey   contextKey = "trusted_caller"
	MetadataKey         contextKey = "metadata"
)
