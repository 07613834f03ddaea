package model

import (
	"time"
)

// Approval status values shared by the overall request status and each slot
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Location types. Only desa_binaan shortens the approval chain.
const (
	LocationDesaBinaan    = "desa_binaan"
	LocationNonDesaBinaan = "non_desa_binaan"
)

// MaxApprovalLevels is the number of slots persisted for every request.
const MaxApprovalLevels = 4

// ApprovalSlot is the decision record for one level of the chain.
type ApprovalSlot struct {
	Status string     `json:"status"`
	By     *uint      `json:"by"`
	At     *time.Time `json:"at"`
	Notes  *string    `json:"notes"`
}

// VehicleRequest is a vehicle-usage request submitted through the public form.
// The chain is stored as four flat column groups so the table keeps the
// approvalN/approvalN_by/approvalN_at/approvalN_notes layout; Go code reads
// and writes it through Slot and SetSlot only.
type VehicleRequest struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TicketNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"ticket_number"`

	ServiceType string `gorm:"type:varchar(100);not null" json:"service_type"` // layanan_pool, izin_khusus

	Name         string      `gorm:"type:varchar(100);not null" json:"name"`
	NIK          string      `gorm:"column:nik;type:varchar(20);not null;index" json:"nik"`
	Email        string      `gorm:"type:varchar(100);not null;index" json:"email"`
	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	VehiclePurpose string `gorm:"type:varchar(100);not null" json:"vehicle_purpose"` // dinas, pribadi
	PurposeReason  string `gorm:"type:text;not null" json:"purpose_reason"`
	LocationType   string `gorm:"type:varchar(100);not null" json:"location_type"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Agreement bool      `gorm:"not null;default:false" json:"agreement"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	Approval1      string     `gorm:"column:approval1;type:varchar(20);not null;default:'pending'" json:"-"`
	Approval1By    *uint      `gorm:"column:approval1_by" json:"-"`
	Approval1At    *time.Time `gorm:"column:approval1_at" json:"-"`
	Approval1Notes *string    `gorm:"column:approval1_notes;type:text" json:"-"`

	Approval2      string     `gorm:"column:approval2;type:varchar(20);not null;default:'pending'" json:"-"`
	Approval2By    *uint      `gorm:"column:approval2_by" json:"-"`
	Approval2At    *time.Time `gorm:"column:approval2_at" json:"-"`
	Approval2Notes *string    `gorm:"column:approval2_notes;type:text" json:"-"`

	Approval3      string     `gorm:"column:approval3;type:varchar(20);not null;default:'pending'" json:"-"`
	Approval3By    *uint      `gorm:"column:approval3_by" json:"-"`
	Approval3At    *time.Time `gorm:"column:approval3_at" json:"-"`
	Approval3Notes *string    `gorm:"column:approval3_notes;type:text" json:"-"`

	Approval4      string     `gorm:"column:approval4;type:varchar(20);not null;default:'pending'" json:"-"`
	Approval4By    *uint      `gorm:"column:approval4_by" json:"-"`
	Approval4At    *time.Time `gorm:"column:approval4_at" json:"-"`
	Approval4Notes *string    `gorm:"column:approval4_notes;type:text" json:"-"`

	ApprovedBy      *uint      `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot returns the decision record for level 1..4. Out of range levels
// yield a zero slot.
func (r *VehicleRequest) Slot(level int) ApprovalSlot {
	switch level {
	case 1:
		return ApprovalSlot{Status: r.Approval1, By: r.Approval1By, At: r.Approval1At, Notes: r.Approval1Notes}
	case 2:
		return ApprovalSlot{Status: r.Approval2, By: r.Approval2By, At: r.Approval2At, Notes: r.Approval2Notes}
	case 3:
		return ApprovalSlot{Status: r.Approval3, By: r.Approval3By, At: r.Approval3At, Notes: r.Approval3Notes}
	case 4:
		return ApprovalSlot{Status: r.Approval4, By: r.Approval4By, At: r.Approval4At, Notes: r.Approval4Notes}
	}
	return ApprovalSlot{}
}

// SetSlot overwrites the decision record for level 1..4. Out of range
// levels are ignored.
func (r *VehicleRequest) SetSlot(level int, s ApprovalSlot) {
	switch level {
	case 1:
		r.Approval1, r.Approval1By, r.Approval1At, r.Approval1Notes = s.Status, s.By, s.At, s.Notes
	case 2:
		r.Approval2, r.Approval2By, r.Approval2At, r.Approval2Notes = s.Status, s.By, s.At, s.Notes
	case 3:
		r.Approval3, r.Approval3By, r.Approval3At, r.Approval3Notes = s.Status, s.By, s.At, s.Notes
	case 4:
		r.Approval4, r.Approval4By, r.Approval4At, r.Approval4Notes = s.Status, s.By, s.At, s.Notes
	}
}

// Slots returns the four slots in level order.
func (r *VehicleRequest) Slots() [MaxApprovalLevels]ApprovalSlot {
	var out [MaxApprovalLevels]ApprovalSlot
	for i := range out {
		out[i] = r.Slot(i + 1)
	}
	return out
}

// ResetChain puts the request into its initial state: overall pending and
// every slot pending.
func (r *VehicleRequest) ResetChain() {
	r.Status = StatusPending
	for level := 1; level <= MaxApprovalLevels; level++ {
		r.SetSlot(level, ApprovalSlot{Status: StatusPending})
	}
	r.ApprovedBy = nil
	r.ApprovedAt = nil
	r.RejectionReason = nil
}

// TicketCounter remembers the highest ticket number issued per prefix so
// numbers are not handed out again after a request is deleted.
type TicketCounter struct {
	Prefix     string    `gorm:"type:varchar(20);primaryKey" json:"prefix"`
	LastNumber int64     `gorm:"not null;default:0" json:"last_number"`
	UpdatedAt  time.Time `json:"updated_at"`
}
