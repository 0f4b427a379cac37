package domain

type NotificationMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type SignupNotificationData struct {
	PersonName    string `json:"personName"`
	Phone         string `json:"phone"`
	ShiftDate     string `json:"shiftDate"`
	ShiftLocation string `json:"shiftLocation"`
}

type ReleaseNotificationData struct {
	PersonName    string `json:"personName"`
	Phone         string `json:"phone"`
	ShiftDate     string `json:"shiftDate"`
	ShiftLocation string `json:"shiftLocation"`
}

type ExtraShiftNotificationData struct {
	PersonName string  `json:"personName"`
	Phone      string  `json:"phone"`
	Date       string  `json:"date"`
	WorkStart  string  `json:"workStart"`
	WorkEnd    string  `json:"workEnd"`
	WorkHours  float64 `json:"workHours"`
}
