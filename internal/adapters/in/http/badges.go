package http

import "customs/internal/core/domain/model/wsstatus"

// Badge is the UI hint shipped with every status row so operator screens
// render the per-type tracks uniformly.
type Badge struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var statusBadges = map[wsstatus.Status]Badge{
	wsstatus.Pending:    {Icon: "clock", Description: "Not submitted yet"},
	wsstatus.Validating: {Icon: "hourglass", Description: "Submission in progress"},
	wsstatus.Sent:       {Icon: "paper-plane", Description: "Awaiting authority response"},
	wsstatus.Approved:   {Icon: "check-circle", Description: "Approved by the authority"},
	wsstatus.Rejected:   {Icon: "x-circle", Description: "Rejected, correction required"},
	wsstatus.Expired:    {Icon: "moon", Description: "Expired without completion"},
}

// BadgeForStatus maps a status name to its badge. Unknown names get a
// neutral badge rather than an error; the status text is still shown.
func BadgeForStatus(status string) Badge {
	for value, badge := range statusBadges {
		if value.String() == status {
			return badge
		}
	}
	return Badge{Icon: "question", Description: "Unknown status"}
}
