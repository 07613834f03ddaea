package approval

import "vehicle-request-api/internal/model"

// AudienceKind selects how a notice's recipients are resolved.
type AudienceKind int

const (
	AudienceRole AudienceKind = iota + 1
	AudienceRoleInDepartment
	AudienceEmail
	AudienceNIK
)

// Audience describes who should receive a notice.
type Audience struct {
	Kind         AudienceKind
	Role         string
	DepartmentID uint
	Email        string
	NIK          string
}

func ByRole(role string) Audience { return Audience{Kind: AudienceRole, Role: role} }

func ByRoleInDepartment(role string, departmentID uint) Audience {
	return Audience{Kind: AudienceRoleInDepartment, Role: role, DepartmentID: departmentID}
}

func ByEmail(email string) Audience { return Audience{Kind: AudienceEmail, Email: email} }

func ByNIK(nik string) Audience { return Audience{Kind: AudienceNIK, NIK: nik} }

// NoticeKind picks the message template.
type NoticeKind string

const (
	KindTicketReceipt      NoticeKind = "ticket_receipt"
	KindAwaitingDecision   NoticeKind = "awaiting_decision"
	KindOversightSubmitted NoticeKind = "oversight_submitted"
	KindOversightDecision  NoticeKind = "oversight_decision"
	KindProgress           NoticeKind = "progress"
	KindFinalApproved      NoticeKind = "final_approved"
	KindRejected           NoticeKind = "rejected"
)

// Notice is one planned notification. Planning is kept apart from sending so
// the write path can be tested without a messaging channel.
type Notice struct {
	Kind      NoticeKind
	Audience  Audience
	Level     int
	NextLevel int
	Decision  string
	Notes     string
}

// approverAudience addresses the role bound to level, scoped to the
// department when the binding says so.
func approverAudience(level int, departmentID uint) (Audience, bool) {
	b, ok := BindingFor(level)
	if !ok {
		return Audience{}, false
	}
	if b.DepartmentScoped {
		return ByRoleInDepartment(b.Role, departmentID), true
	}
	return ByRole(b.Role), true
}

// PlanSubmission lists the notices sent when a request is created.
func PlanSubmission(req *model.VehicleRequest) []Notice {
	notices := make([]Notice, 0, 3)
	if aud, ok := approverAudience(1, req.DepartmentID); ok {
		notices = append(notices, Notice{Kind: KindAwaitingDecision, Audience: aud, Level: 1})
	}
	notices = append(notices, Notice{Kind: KindOversightSubmitted, Audience: ByRole(OversightRole)})
	if req.NIK != "" {
		notices = append(notices, Notice{Kind: KindTicketReceipt, Audience: ByNIK(req.NIK)})
	}
	return notices
}

// PlanDecision lists the notices sent after a decision was persisted.
func PlanDecision(out Outcome) []Notice {
	req := out.Request
	oversight := Notice{
		Kind:     KindOversightDecision,
		Audience: ByRole(OversightRole),
		Level:    out.Level,
		Decision: out.Decision,
		Notes:    out.Notes,
	}

	if out.Decision == model.StatusRejected {
		return []Notice{
			{Kind: KindRejected, Audience: ByEmail(req.Email), Level: out.Level, Decision: out.Decision, Notes: out.Notes},
			oversight,
		}
	}

	if out.Terminal {
		return []Notice{
			{Kind: KindFinalApproved, Audience: ByEmail(req.Email), Level: out.Level, Decision: out.Decision, Notes: out.Notes},
			oversight,
		}
	}

	next := out.Level + 1
	oversight.NextLevel = next
	notices := make([]Notice, 0, 3)
	if aud, ok := approverAudience(next, req.DepartmentID); ok {
		notices = append(notices, Notice{Kind: KindAwaitingDecision, Audience: aud, Level: next})
	}
	notices = append(notices,
		oversight,
		Notice{Kind: KindProgress, Audience: ByEmail(req.Email), Level: out.Level, NextLevel: next, Decision: out.Decision, Notes: out.Notes},
	)
	return notices
}
