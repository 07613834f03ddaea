package approval

import (
	"testing"

	"vehicle-request-api/internal/model"
)

func kinds(notices []Notice) []NoticeKind {
	out := make([]NoticeKind, len(notices))
	for i, n := range notices {
		out[i] = n.Kind
	}
	return out
}

func findKind(t *testing.T, notices []Notice, kind NoticeKind) Notice {
	t.Helper()
	for _, n := range notices {
		if n.Kind == kind {
			return n
		}
	}
	t.Fatalf("notice %s not planned, got %v", kind, kinds(notices))
	return Notice{}
}

func TestPlanSubmission(t *testing.T) {
	req := newRequest(model.LocationDesaBinaan)
	notices := PlanSubmission(&req)

	approver := findKind(t, notices, KindAwaitingDecision)
	if approver.Audience != ByRoleInDepartment(model.RoleHeadDepartemen, 7) || approver.Level != 1 {
		t.Fatalf("level 1 approver must be department scoped, got %+v", approver)
	}
	if n := findKind(t, notices, KindOversightSubmitted); n.Audience != ByRole(OversightRole) {
		t.Fatalf("oversight audience wrong: %+v", n.Audience)
	}
	if n := findKind(t, notices, KindTicketReceipt); n.Audience != ByNIK(req.NIK) {
		t.Fatalf("receipt audience wrong: %+v", n.Audience)
	}
}

func TestPlanDecisionProgress(t *testing.T) {
	req := newRequest(model.LocationNonDesaBinaan)
	req = decide(t, req, 1, model.StatusApproved, "").Request
	out := decide(t, req, 2, model.StatusApproved, "")

	notices := PlanDecision(out)
	if len(notices) != 3 {
		t.Fatalf("expected 3 notices, got %v", kinds(notices))
	}
	next := findKind(t, notices, KindAwaitingDecision)
	if next.Audience != ByRole(model.RoleGeneralAffair) || next.Level != 3 {
		t.Fatalf("level 3 approver must be unscoped general_affair, got %+v", next)
	}
	if n := findKind(t, notices, KindOversightDecision); n.Audience != ByRole(OversightRole) || n.NextLevel != 3 {
		t.Fatalf("oversight notice wrong: %+v", n)
	}
	progress := findKind(t, notices, KindProgress)
	if progress.Audience != ByEmail(req.Email) || progress.NextLevel != 3 {
		t.Fatalf("progress notice wrong: %+v", progress)
	}
}

func TestPlanDecisionRejected(t *testing.T) {
	req := newRequest(model.LocationNonDesaBinaan)
	out := decide(t, req, 1, model.StatusRejected, "incomplete documents")

	notices := PlanDecision(out)
	rejected := findKind(t, notices, KindRejected)
	if rejected.Audience != ByEmail(req.Email) || rejected.Notes != "incomplete documents" || rejected.Level != 1 {
		t.Fatalf("rejection notice wrong: %+v", rejected)
	}
	findKind(t, notices, KindOversightDecision)
	for _, n := range notices {
		if n.Kind == KindAwaitingDecision {
			t.Fatalf("rejected chain must not notify a next approver")
		}
	}
}

func TestPlanDecisionFinalApproval(t *testing.T) {
	req := newRequest(model.LocationDesaBinaan)
	req = decide(t, req, 1, model.StatusApproved, "").Request
	req = decide(t, req, 2, model.StatusApproved, "").Request
	out := decide(t, req, 3, model.StatusApproved, "")

	notices := PlanDecision(out)
	final := findKind(t, notices, KindFinalApproved)
	if final.Audience != ByEmail(req.Email) {
		t.Fatalf("final approval goes to the requester, got %+v", final.Audience)
	}
	for _, n := range notices {
		if n.Kind == KindAwaitingDecision {
			t.Fatalf("level 4 must never be notified for desa binaan")
		}
	}
}
