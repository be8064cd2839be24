package altar

import "errors"

// Reason is a user-facing message key.
type Reason string

const (
	ReasonProgress     Reason = "progress"
	ReasonSacrifices   Reason = "sacrifices"
	ReasonBlockBelow   Reason = "block_below"
	ReasonNoDay        Reason = "no_day"
	ReasonNoNight      Reason = "no_night"
	ReasonNoSun        Reason = "no_sun"
	ReasonNoRain       Reason = "no_rain"
	ReasonNoThunder    Reason = "no_thunder"
	ReasonInvalid      Reason = "invalid"
	ReasonVetoed       Reason = "vetoed"
	ReasonNoRecipe     Reason = "no_recipe"
	ReasonResumeFailed Reason = "resume_failed"
)

// Rejection is returned when a ritual may not start. It is reported to the
// invoking actor and never escapes the world loop.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string { return "ritual rejected: " + string(r.Reason) }

func reject(r Reason) error { return &Rejection{Reason: r} }

// RejectionReason extracts the reason from err, if it is a rejection.
func RejectionReason(err error) (Reason, bool) {
	var rj *Rejection
	if errors.As(err, &rj) {
		return rj.Reason, true
	}
	return "", false
}

var ErrAltarBusy = errors.New("altar busy")
