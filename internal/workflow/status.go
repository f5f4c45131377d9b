package workflow

import "fmt"

// Status is the lifecycle state of a solo parent case. The users.status
// column holds the string value.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusCreated        Status = "Created"
	StatusVerified       Status = "Verified"
	StatusDeclined       Status = "Declined"
	StatusRenewal        Status = "Renewal"
	StatusPendingRemarks Status = "Pending Remarks"
	StatusTerminated     Status = "Terminated"
	StatusIncomplete     Status = "Incomplete"
	StatusPendingRequest Status = "Pending Request"
)

var allStatuses = map[Status]bool{
	StatusPending:        true,
	StatusCreated:        true,
	StatusVerified:       true,
	StatusDeclined:       true,
	StatusRenewal:        true,
	StatusPendingRemarks: true,
	StatusTerminated:     true,
	StatusIncomplete:     true,
	StatusPendingRequest: true,
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !allStatuses[s] {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Event names a workflow action taken against a case.
type Event string

const (
	// EventFirstLogin fires when a staff-created account logs in for the
	// first time.
	EventFirstLogin Event = "first_login"
	// EventAccept is the barangay admin accepting an application outright.
	// All submitted documents are approved as part of the transition.
	EventAccept Event = "accept"
	// EventDecline is the terminal rejection at initial review.
	EventDecline Event = "decline"
	// EventRenew flags a verified case for its yearly renewal.
	EventRenew Event = "renew"
	// EventRenewalApproved is the MSWDO approving a renewal.
	EventRenewalApproved Event = "renewal_approved"
	// EventRenewalDeclined is the MSWDO declining a renewal. The barangay
	// certificate row is removed as part of the transition.
	EventRenewalDeclined Event = "renewal_declined"
	EventTerminate       Event = "terminate"
	// EventReinstate restores a terminated case after re-verification.
	EventReinstate Event = "reinstate"
	// EventFlagRemarks puts a verified case under investigation.
	EventFlagRemarks Event = "flag_remarks"
	// EventClearRemarks closes an investigation in the user's favor.
	EventClearRemarks Event = "clear_remarks"
	// EventRejectRemarks closes an investigation against the user.
	EventRejectRemarks Event = "reject_remarks"
	// EventChildRequestFiled is the barangay forwarding a child-information
	// change request to the MSWDO.
	EventChildRequestFiled Event = "child_request_filed"
	// EventChildRequestApproved is the MSWDO accepting the change.
	EventChildRequestApproved Event = "child_request_approved"
	// EventChildRequestDeclined returns the case to Verified unchanged.
	EventChildRequestDeclined Event = "child_request_declined"
	// EventDocumentsComplete and EventDocumentsIncomplete are raised by the
	// document recomputation, never by an operator directly.
	EventDocumentsComplete   Event = "documents_complete"
	EventDocumentsIncomplete Event = "documents_incomplete"
)

// Effect is a side effect attached to a transition. The service interprets
// the list; the table stays declarative.
type Effect int

const (
	// notification inserts
	EffectNotifyAccepted Effect = iota // accepted_users, unless an unread one exists
	EffectNotifyDeclined               // declined_users, unless an unread one exists
	EffectNotifyTerminated             // terminated_users, unless an unread one exists
	EffectNotifyAdminNewVerified
	EffectNotifyAdminTerminated
	EffectNotifyAdminReinstated
	EffectRecordRemark // user_remarks + superadminnotifications
	EffectNotifyChildRequest
	EffectNotifySuperadminChildRequest

	// document side effects
	EffectApproveAllDocuments
	EffectApproveBarangayCert
	EffectDeleteBarangayCert

	// outbound email, enqueued after commit
	EffectEmailStatus
	EffectEmailRenewal
	EffectEmailRevoke
	EffectEmailTermination
	EffectEmailReverification
	EffectEmailChildRequest
)

// Transition is one allowed (from, event) edge.
type Transition struct {
	To      Status
	Effects []Effect
}

type edge struct {
	From  Status
	Event Event
}

// transitions is the full state machine. Anything not listed here is an
// illegal transition.
var transitions = map[edge]Transition{
	{StatusCreated, EventFirstLogin}: {StatusVerified, []Effect{EffectNotifyAdminNewVerified}},

	{StatusPending, EventAccept}:    {StatusVerified, []Effect{EffectApproveAllDocuments, EffectNotifyAccepted, EffectNotifyAdminNewVerified, EffectEmailStatus}},
	{StatusIncomplete, EventAccept}: {StatusVerified, []Effect{EffectApproveAllDocuments, EffectNotifyAccepted, EffectNotifyAdminNewVerified, EffectEmailStatus}},

	{StatusPending, EventDecline}:    {StatusDeclined, []Effect{EffectNotifyDeclined, EffectEmailStatus}},
	{StatusIncomplete, EventDecline}: {StatusDeclined, []Effect{EffectNotifyDeclined, EffectEmailStatus}},

	{StatusVerified, EventRenew}:         {StatusRenewal, []Effect{EffectNotifyAccepted}},
	{StatusRenewal, EventRenewalApproved}: {StatusVerified, []Effect{EffectApproveBarangayCert, EffectNotifyAccepted, EffectEmailRenewal}},
	{StatusRenewal, EventRenewalDeclined}: {StatusDeclined, []Effect{EffectDeleteBarangayCert, EffectNotifyDeclined, EffectEmailStatus}},

	{StatusVerified, EventTerminate}: {StatusTerminated, []Effect{EffectNotifyTerminated, EffectNotifyAdminTerminated, EffectEmailTermination}},
	{StatusRenewal, EventTerminate}:  {StatusTerminated, []Effect{EffectNotifyTerminated, EffectNotifyAdminTerminated, EffectEmailTermination}},

	{StatusTerminated, EventReinstate}: {StatusVerified, []Effect{EffectNotifyAccepted, EffectNotifyAdminReinstated, EffectEmailReverification}},

	{StatusVerified, EventFlagRemarks}:         {StatusPendingRemarks, []Effect{EffectRecordRemark, EffectEmailRevoke}},
	{StatusPendingRemarks, EventClearRemarks}:  {StatusVerified, []Effect{EffectNotifyAccepted}},
	{StatusPendingRemarks, EventRejectRemarks}: {StatusTerminated, []Effect{EffectNotifyTerminated}},

	{StatusVerified, EventChildRequestFiled}:          {StatusPendingRequest, []Effect{EffectNotifyChildRequest, EffectNotifySuperadminChildRequest}},
	{StatusPendingRequest, EventChildRequestApproved}: {StatusVerified, []Effect{EffectNotifyChildRequest, EffectEmailChildRequest}},
	{StatusPendingRequest, EventChildRequestDeclined}: {StatusVerified, []Effect{EffectNotifyChildRequest, EffectEmailChildRequest}},

	{StatusPending, EventDocumentsComplete}:      {StatusVerified, []Effect{EffectNotifyAdminNewVerified}},
	{StatusIncomplete, EventDocumentsComplete}:   {StatusVerified, []Effect{EffectNotifyAdminNewVerified}},
	{StatusPending, EventDocumentsIncomplete}:    {StatusIncomplete, nil},
	{StatusIncomplete, EventDocumentsIncomplete}: {StatusIncomplete, nil},
	{StatusVerified, EventDocumentsIncomplete}:   {StatusIncomplete, nil},
}

// ErrIllegalTransition wraps a (from, event) pair the table does not allow.
type ErrIllegalTransition struct {
	From  Status
	Event Event
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("cannot apply %s to a case in status %q", e.Event, e.From)
}

// Next resolves the transition for (from, event).
func Next(from Status, event Event) (Transition, error) {
	t, ok := transitions[edge{from, event}]
	if !ok {
		return Transition{}, &ErrIllegalTransition{From: from, Event: event}
	}
	return t, nil
}

// CanApply reports whether the event is legal from the given status.
func CanApply(from Status, event Event) bool {
	_, ok := transitions[edge{from, event}]
	return ok
}
