package registration

import (
	"testing"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/types"
)

func TestCanTransitionCoversExactlyTheLifecycleEdges(t *testing.T) {
	statuses := []types.RegistrationStatus{
		types.RegistrationPending,
		types.RegistrationConfirmed,
		types.RegistrationCancelled,
		types.RegistrationCompleted,
		types.RegistrationFailed,
	}
	allowed := map[[2]types.RegistrationStatus]bool{
		{types.RegistrationPending, types.RegistrationConfirmed}:   true,
		{types.RegistrationPending, types.RegistrationCancelled}:   true,
		{types.RegistrationConfirmed, types.RegistrationCompleted}: true,
		{types.RegistrationConfirmed, types.RegistrationCancelled}: true,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]types.RegistrationStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s)=%v, want %v", from, to, got, want)
			}
		}
	}
}

func TestApprove(t *testing.T) {
	cases := []struct {
		name       string
		current    types.RegistrationStatus
		wantStatus types.RegistrationStatus
		wantChange bool
		wantErr    bool
	}{
		{"pending_confirms", types.RegistrationPending, types.RegistrationConfirmed, true, false},
		{"confirmed_is_noop", types.RegistrationConfirmed, types.RegistrationConfirmed, false, false},
		{"cancelled_rejected", types.RegistrationCancelled, types.RegistrationCancelled, false, true},
		{"completed_rejected", types.RegistrationCompleted, types.RegistrationCompleted, false, true},
		{"failed_rejected", types.RegistrationFailed, types.RegistrationFailed, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec, err := Approve(tc.current)
			assertDecision(t, dec, err, tc.wantStatus, tc.wantChange, tc.wantErr)
		})
	}
}

func TestApproveTwiceEqualsOnce(t *testing.T) {
	first, err := Approve(types.RegistrationPending)
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	second, err := Approve(first.Status)
	if err != nil {
		t.Fatalf("second approve must be a no-op success, got %v", err)
	}
	if second.Changed {
		t.Fatalf("second approve reported a change")
	}
	if second.Status != first.Status {
		t.Fatalf("second approve moved status: %s != %s", second.Status, first.Status)
	}
}

func TestReject(t *testing.T) {
	cases := []struct {
		name       string
		current    types.RegistrationStatus
		wantStatus types.RegistrationStatus
		wantChange bool
		wantErr    bool
	}{
		{"pending_cancels", types.RegistrationPending, types.RegistrationCancelled, true, false},
		{"cancelled_is_noop", types.RegistrationCancelled, types.RegistrationCancelled, false, false},
		{"confirmed_rejected", types.RegistrationConfirmed, types.RegistrationConfirmed, false, true},
		{"completed_rejected", types.RegistrationCompleted, types.RegistrationCompleted, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec, err := Reject(tc.current)
			assertDecision(t, dec, err, tc.wantStatus, tc.wantChange, tc.wantErr)
		})
	}
}

func TestCancel(t *testing.T) {
	cases := []struct {
		name       string
		current    types.RegistrationStatus
		wantStatus types.RegistrationStatus
		wantChange bool
		wantErr    bool
	}{
		{"confirmed_cancels", types.RegistrationConfirmed, types.RegistrationCancelled, true, false},
		{"cancelled_is_noop", types.RegistrationCancelled, types.RegistrationCancelled, false, false},
		{"pending_rejected", types.RegistrationPending, types.RegistrationPending, false, true},
		{"completed_rejected", types.RegistrationCompleted, types.RegistrationCompleted, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec, err := Cancel(tc.current)
			assertDecision(t, dec, err, tc.wantStatus, tc.wantChange, tc.wantErr)
		})
	}
}

func TestComplete(t *testing.T) {
	cases := []struct {
		name       string
		current    types.RegistrationStatus
		wantStatus types.RegistrationStatus
		wantChange bool
		wantErr    bool
	}{
		{"confirmed_completes", types.RegistrationConfirmed, types.RegistrationCompleted, true, false},
		{"completed_is_noop", types.RegistrationCompleted, types.RegistrationCompleted, false, false},
		{"pending_rejected", types.RegistrationPending, types.RegistrationPending, false, true},
		{"cancelled_rejected", types.RegistrationCancelled, types.RegistrationCancelled, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec, err := Complete(tc.current)
			assertDecision(t, dec, err, tc.wantStatus, tc.wantChange, tc.wantErr)
		})
	}
}

func TestInvalidTransitionErrorsCarryTheCode(t *testing.T) {
	_, err := Complete(types.RegistrationPending)
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr := apierr.From(err)
	if apiErr == nil {
		t.Fatalf("error is not an apierr.Error: %v", err)
	}
	if apiErr.Code != apierr.CodeInvalidTransition {
		t.Fatalf("code=%s, want %s", apiErr.Code, apierr.CodeInvalidTransition)
	}
}

func assertDecision(t *testing.T, dec Decision, err error, wantStatus types.RegistrationStatus, wantChange, wantErr bool) {
	t.Helper()
	if wantErr {
		if err == nil {
			t.Fatalf("expected invalid transition error, got none")
		}
	} else if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Status != wantStatus {
		t.Fatalf("status=%s, want %s", dec.Status, wantStatus)
	}
	if dec.Changed != wantChange {
		t.Fatalf("changed=%v, want %v", dec.Changed, wantChange)
	}
}
