package workflow

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"Pending", "Created", "Verified", "Declined", "Renewal", "Pending Remarks", "Terminated", "Incomplete", "Pending Request"} {
		if _, err := ParseStatus(raw); err != nil {
			t.Fatalf("ParseStatus(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"", "verified", "Approved", "pending remarks"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Fatalf("ParseStatus(%q) accepted an unknown status", raw)
		}
	}
}

func TestNextLegalTransitions(t *testing.T) {
	cases := []struct {
		from  Status
		event Event
		to    Status
	}{
		{StatusCreated, EventFirstLogin, StatusVerified},
		{StatusPending, EventAccept, StatusVerified},
		{StatusIncomplete, EventAccept, StatusVerified},
		{StatusPending, EventDecline, StatusDeclined},
		{StatusVerified, EventRenew, StatusRenewal},
		{StatusRenewal, EventRenewalApproved, StatusVerified},
		{StatusRenewal, EventRenewalDeclined, StatusDeclined},
		{StatusVerified, EventTerminate, StatusTerminated},
		{StatusTerminated, EventReinstate, StatusVerified},
		{StatusVerified, EventFlagRemarks, StatusPendingRemarks},
		{StatusPendingRemarks, EventClearRemarks, StatusVerified},
		{StatusPendingRemarks, EventRejectRemarks, StatusTerminated},
		{StatusVerified, EventChildRequestFiled, StatusPendingRequest},
		{StatusPendingRequest, EventChildRequestApproved, StatusVerified},
		{StatusPendingRequest, EventChildRequestDeclined, StatusVerified},
		{StatusIncomplete, EventDocumentsComplete, StatusVerified},
		{StatusVerified, EventDocumentsIncomplete, StatusIncomplete},
	}
	for _, tc := range cases {
		tr, err := Next(tc.from, tc.event)
		if err != nil {
			t.Fatalf("Next(%s, %s): %v", tc.from, tc.event, err)
		}
		if tr.To != tc.to {
			t.Fatalf("Next(%s, %s) = %s, want %s", tc.from, tc.event, tr.To, tc.to)
		}
	}
}

func TestNextRejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		from  Status
		event Event
	}{
		{StatusDeclined, EventAccept},
		{StatusTerminated, EventTerminate},
		{StatusPending, EventReinstate},
		{StatusPending, EventFlagRemarks},
		{StatusVerified, EventRenewalApproved},
		{StatusPending, EventChildRequestFiled},
		{StatusTerminated, EventDocumentsComplete},
		{StatusPendingRemarks, EventDocumentsIncomplete},
	}
	for _, tc := range cases {
		if _, err := Next(tc.from, tc.event); err == nil {
			t.Fatalf("Next(%s, %s) should be illegal", tc.from, tc.event)
		} else {
			var illegal *ErrIllegalTransition
			if !errors.As(err, &illegal) {
				t.Fatalf("Next(%s, %s) error type = %T", tc.from, tc.event, err)
			}
		}
		if CanApply(tc.from, tc.event) {
			t.Fatalf("CanApply(%s, %s) = true", tc.from, tc.event)
		}
	}
}

func TestTransitionTargetsAreKnownStatuses(t *testing.T) {
	for edge, tr := range transitions {
		if _, err := ParseStatus(string(edge.From)); err != nil {
			t.Fatalf("edge from unknown status %q", edge.From)
		}
		if _, err := ParseStatus(string(tr.To)); err != nil {
			t.Fatalf("edge (%s, %s) targets unknown status %q", edge.From, edge.Event, tr.To)
		}
	}
}
