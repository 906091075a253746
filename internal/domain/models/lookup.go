package models

// AppSetting is a row of the lookup table, keyed by code within a category.
type AppSetting struct {
	Code        string  `json:"code" db:"code"`
	Value       string  `json:"value" db:"value"`
	Description *string `json:"description,omitempty" db:"description"`
}

// AppSettings is the resolved application-level configuration shown in the
// dashboard chrome.
type AppSettings struct {
	AppName        string `json:"app_name"`
	AppDescription string `json:"app_description"`
}
