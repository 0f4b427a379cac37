package handler

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	PersonIDCtxKey   ContextKey = "personID"
	PhoneCtxKey      ContextKey = "phone"
	NameCtxKey       ContextKey = "name"
	ShiftCtxKey      ContextKey = "shift"
	SignupCtxKey     ContextKey = "signup"
	PersonCtxKey     ContextKey = "person"
	ExtraShiftCtxKey ContextKey = "extraShift"
)
