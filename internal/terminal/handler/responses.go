package handler

import (
	"clicker/internal/counts"
	"clicker/internal/identity"
	"clicker/internal/terminal"
	dErrors "clicker/pkg/domain-errors"
)

// ViewResponse is what the presentation layer renders for the station.
type ViewResponse struct {
	GantryMode        string               `json:"gantry_mode"`
	Scanner           ScannerResponse      `json:"scanner"`
	Count             CountResponse        `json:"count"`
	Registration      RegistrationResponse `json:"registration"`
	CanID             string               `json:"can_id,omitempty"`
	Holder            string               `json:"holder,omitempty"`
	NeedsRegistration bool                 `json:"needs_registration"`
	Message           string               `json:"message,omitempty"`
	Paused            bool                 `json:"paused"`
}

type ScannerResponse struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// CountResponse carries the last update. Outcome is "success" or "rejected"
// once the service has answered, empty otherwise.
type CountResponse struct {
	State      string `json:"state"`
	Outcome    string `json:"outcome,omitempty"`
	Message    string `json:"message,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Error      string `json:"error,omitempty"`
	CanForce   bool   `json:"can_force"`
}

type RegistrationResponse struct {
	State  string `json:"state"`
	Holder string `json:"holder,omitempty"`
	Error  string `json:"error,omitempty"`
}

type GantryModeResponse struct {
	GantryMode string `json:"gantry_mode"`
}

type ClickerResponse struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
	Stale bool   `json:"stale,omitempty"`
}

// FromView converts a station view. Identifiers are masked; the raw value
// never leaves the terminal.
func FromView(v terminal.View) *ViewResponse {
	resp := &ViewResponse{
		GantryMode: string(v.GantryMode),
		Scanner: ScannerResponse{
			State: string(v.Scanner.State),
			Error: errorText(v.Scanner.Err),
		},
		Count: CountResponse{
			State:      string(v.Count.State),
			Identifier: maskIdentifier(v.Count.Identifier),
			Error:      errorText(v.Count.Err),
		},
		Registration: RegistrationResponse{
			State: string(v.Registration.State),
			Error: errorText(v.Registration.Err),
		},
		Holder:            v.Holder,
		NeedsRegistration: v.NeedsRegistration,
		Message:           v.Message,
		Paused:            v.Paused,
	}
	if !v.CanID.IsZero() {
		resp.CanID = identity.FormatCanID(v.CanID)
	}
	switch o := v.Count.Outcome.(type) {
	case counts.Success:
		resp.Count.Outcome = counts.StatusSuccess
		resp.Count.Message = o.Message
		resp.Count.Count = o.Count
	case counts.Rejected:
		resp.Count.Outcome = counts.StatusRejected
		resp.Count.Message = o.Message
		resp.Count.CanForce = true
	}
	if res := v.Registration.Result; res != nil {
		resp.Registration.Holder = res.Identifier.Masked()
	}
	return resp
}

func FromDetails(d counts.ClickerDetails, stale bool) *ClickerResponse {
	return &ClickerResponse{Count: d.Count, Name: d.Name, Stale: stale}
}

func maskIdentifier(id identity.Identifier) string {
	if id == "" {
		return ""
	}
	return id.Masked()
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return dErrors.Message(err)
}
