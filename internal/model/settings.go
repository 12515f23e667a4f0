package model

// Settings are the operator feature toggles stored next to the point value.
type Settings struct {
	EnableSMS bool `json:"enableSms"`
}
