package metrics

import (
	"strings"

	"github.com/avct/uasurfer"
)

// RequestEvent is the per-request record handed to the metrics sink. One is
// produced for every request, success or failure, trusted or not.
type RequestEvent struct {
	RequestID      string `json:"request_id"`
	CompanyID      string `json:"company_id,omitempty"`
	Endpoint       string `json:"endpoint"`
	Method         string `json:"method"`
	StatusCode     int    `json:"status_code"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	UserAgent      string `json:"user_agent,omitempty"`
	DeviceType     string `json:"device_type,omitempty"`
	Browser        string `json:"browser,omitempty"`
	RateLimited    bool   `json:"rate_limited"`
	Trusted        bool   `json:"trusted"`
}

// ClassifyUserAgent enriches an event with device and browser classification.
func ClassifyUserAgent(event *RequestEvent, userAgent string) {
	if userAgent == "" {
		return
	}
	event.UserAgent = userAgent
	parsed := uasurfer.Parse(userAgent)
	event.DeviceType = strings.TrimPrefix(parsed.DeviceType.String(), "Device")
	event.Browser = strings.TrimPrefix(parsed.Browser.Name.String(), "Browser")
}
