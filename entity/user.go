package entity

import (
	"net/http"
	"tfabot/lib/validate"
)

// UserRecord is the persisted state for one Telegram user: whether an admin
// has activated code delivery for them, and how many codes they already
// received on last_request_date.
type UserRecord struct {
	Activated       bool   `json:"activated" bson:"activated"`
	CodesSentToday  int    `json:"codes_sent_today" bson:"codes_sent_today"`
	LastRequestDate string `json:"last_request_date,omitempty" bson:"last_request_date,omitempty"`
}

// NewUserRecord returns the default record for a user seen for the first time:
// deactivated, no usage.
func NewUserRecord() *UserRecord {
	return &UserRecord{}
}

// UsedToday returns the effective counter for the given calendar date.
// The stored counter only counts while last_request_date matches today; any
// other stored date means the daily window rolled over and usage is zero.
// The reset is lazy: nothing is written back here.
func (r *UserRecord) UsedToday(today string) int {
	if r.LastRequestDate != today {
		return 0
	}
	return r.CodesSentToday
}

// UserStatus is what /status and the HTTP API report for a single user.
type UserStatus struct {
	UserID     string `json:"user_id"`
	Registered bool   `json:"registered"`
	Activated  bool   `json:"activated"`
	UsedToday  int    `json:"used_today"`
	DailyMax   int    `json:"daily_max"`
}

// UserSummary is one line of the administrative user listing.
// CodesSentToday is the raw stored counter, not adjusted for date rollover.
type UserSummary struct {
	UserID         string `json:"user_id"`
	Activated      bool   `json:"activated"`
	CodesSentToday int    `json:"codes_sent_today"`
}

// IssuedCode is the successful outcome of a code request.
type IssuedCode struct {
	Code      string `json:"code"`
	UsedToday int    `json:"used_today"`
	DailyMax  int    `json:"daily_max"`
}

// ActivationRequest is the body of PUT /v1/users/{id}/activation.
type ActivationRequest struct {
	Activated *bool `json:"activated" validate:"required"`
}

func (a *ActivationRequest) Bind(_ *http.Request) error {
	return validate.Struct(a)
}

// ApiClient identifies an authenticated HTTP API caller.
type ApiClient struct {
	Name string `json:"name"`
}
