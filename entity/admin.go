package entity

import (
	"net/http"

	"licensedesk/lib/validate"
)

// Operator is the authenticated caller of the admin API.
type Operator struct {
	Name string `json:"name"`
}

type UserAction string

const (
	ActionBan           UserAction = "ban"
	ActionUnban         UserAction = "unban"
	ActionLock          UserAction = "lock"
	ActionUnlock        UserAction = "unlock"
	ActionExtendLicense UserAction = "extend_license"
	ActionResetLicense  UserAction = "reset_license"
)

var userActions = []UserAction{
	ActionBan,
	ActionUnban,
	ActionLock,
	ActionUnlock,
	ActionExtendLicense,
	ActionResetLicense,
}

func UserActions() []UserAction {
	result := make([]UserAction, len(userActions))
	copy(result, userActions)
	return result
}

func (a UserAction) Valid() bool {
	for _, v := range userActions {
		if v == a {
			return true
		}
	}
	return false
}

// TouchesLicense reports whether the action changes license state as well as the user.
func (a UserAction) TouchesLicense() bool {
	return a == ActionExtendLicense || a == ActionResetLicense
}

type CreateLicensesRequest struct {
	DurationDays  float64 `json:"duration_days" validate:"gt=0,lte=36500"`
	Quantity      int     `json:"quantity" validate:"min=1,max=100"`
	MaxExecutions int     `json:"max_executions" validate:"min=-1"`
}

func (c *CreateLicensesRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

type UserActionRequest struct {
	UserID string     `json:"user_id" validate:"required"`
	Action UserAction `json:"action" validate:"required,oneof=ban unban lock unlock extend_license reset_license"`
	Value  *int       `json:"value" validate:"omitempty,lte=36500"`
}

func (u *UserActionRequest) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

type AddCreditsRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	CreditsToAdd int    `json:"credits_to_add"`
}

func (a *AddCreditsRequest) Bind(_ *http.Request) error {
	return validate.Struct(a)
}
