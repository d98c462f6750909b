package api

// Code identifies an API error class.
type Code string

const (
	CodeInvalidRequest Code = "invalid_request"
	CodeUnknownAgent   Code = "unknown_agent"
	CodePolicyBlocked  Code = "policy_blocked"
	CodeRateLimited    Code = "rate_limited"
	CodeInternalError  Code = "internal_error"
)

// Error is the JSON error payload of the API.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}
