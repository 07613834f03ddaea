package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"vehicle-request-api/internal/approval"
	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/notification"
	"vehicle-request-api/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateVehicleRequestDTO struct {
	ServiceType    string    `json:"service_type" binding:"required,max=100"`
	Name           string    `json:"name" binding:"required,max=100"`
	NIK            string    `json:"nik" binding:"required,max=20"`
	Email          string    `json:"email" binding:"required,email,max=100"`
	DepartmentID   uint      `json:"department_id" binding:"required"`
	VehiclePurpose string    `json:"vehicle_purpose" binding:"required,max=100"`
	PurposeReason  string    `json:"purpose_reason" binding:"required"`
	LocationType   string    `json:"location_type" binding:"required,oneof=desa_binaan non_desa_binaan"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	Agreement      bool      `json:"agreement"`
}

type DecideApprovalDTO struct {
	Level  int    `json:"level" binding:"required"`
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// Actor is the authenticated user deciding a level.
type Actor struct {
	ID           uint
	Role         string
	DepartmentID *uint
}

type VehicleRequestFilter struct {
	Status string
	Page   int
	Limit  int
}

type ApprovalLevelResponse struct {
	Level  int     `json:"level"`
	Label  string  `json:"label"`
	Role   string  `json:"role"`
	Status string  `json:"status"`
	By     *uint   `json:"by"`
	At     *string `json:"at"`
	Notes  *string `json:"notes"`
}

type VehicleRequestResponse struct {
	ID                 uint                    `json:"id"`
	TicketNumber       string                  `json:"ticket_number"`
	ServiceType        string                  `json:"service_type"`
	Name               string                  `json:"name"`
	NIK                string                  `json:"nik"`
	Email              string                  `json:"email"`
	DepartmentID       uint                    `json:"department_id"`
	DepartmentName     string                  `json:"department_name"`
	VehiclePurpose     string                  `json:"vehicle_purpose"`
	PurposeReason      string                  `json:"purpose_reason"`
	LocationType       string                  `json:"location_type"`
	StartDate          string                  `json:"start_date"`
	EndDate            string                  `json:"end_date"`
	Agreement          bool                    `json:"agreement"`
	Status             string                  `json:"status"`
	ApplicableMaxLevel int                     `json:"applicable_max_level"`
	AwaitingLevel      int                     `json:"awaiting_level"`
	Approvals          []ApprovalLevelResponse `json:"approvals"`
	ApprovedBy         *uint                   `json:"approved_by"`
	ApprovedAt         *string                 `json:"approved_at"`
	RejectionReason    *string                 `json:"rejection_reason"`
	CreatedAt          string                  `json:"created_at"`
	UpdatedAt          string                  `json:"updated_at"`
}

// Notifier is the best-effort side of the engine. It never reports errors.
type Notifier interface {
	Dispatch(ctx context.Context, req *model.VehicleRequest, notices []approval.Notice) notification.Report
	Publish(ctx context.Context, event notification.Event)
}

// --- Interface ---

type VehicleRequestService interface {
	Create(ctx context.Context, dto CreateVehicleRequestDTO) (*VehicleRequestResponse, error)
	Decide(ctx context.Context, id uint, dto DecideApprovalDTO, actor Actor) (*VehicleRequestResponse, error)
	SearchByTicket(ctx context.Context, ticketNumber string) (*VehicleRequestResponse, error)
	GetByID(ctx context.Context, id uint) (*VehicleRequestResponse, error)
	List(ctx context.Context, filter VehicleRequestFilter) ([]VehicleRequestResponse, int64, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type vehicleRequestService struct {
	requests    repository.VehicleRequestRepository
	departments repository.DepartmentRepository
	audits      repository.AuditRepository
	txManager   repository.TransactionManager
	tickets     *TicketNumberer
	notifier    Notifier
	log         zerolog.Logger
	now         func() time.Time
}

func NewVehicleRequestService(
	requests repository.VehicleRequestRepository,
	departments repository.DepartmentRepository,
	audits repository.AuditRepository,
	txManager repository.TransactionManager,
	tickets *TicketNumberer,
	notifier Notifier,
	log zerolog.Logger,
) VehicleRequestService {
	return &vehicleRequestService{
		requests:    requests,
		departments: departments,
		audits:      audits,
		txManager:   txManager,
		tickets:     tickets,
		notifier:    notifier,
		log:         log.With().Str("component", "vehicle_request").Logger(),
		now:         time.Now,
	}
}

// --- Implementation ---

func (s *vehicleRequestService) Create(ctx context.Context, dto CreateVehicleRequestDTO) (*VehicleRequestResponse, error) {
	if err := validateCreate(dto); err != nil {
		return nil, err
	}

	dept, err := s.departments.GetByID(ctx, dto.DepartmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: department %d does not exist", ErrInvalidRequest, dto.DepartmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load department: %w", err)
	}

	req := model.VehicleRequest{
		ServiceType:    strings.TrimSpace(dto.ServiceType),
		Name:           strings.TrimSpace(dto.Name),
		NIK:            strings.TrimSpace(dto.NIK),
		Email:          strings.TrimSpace(dto.Email),
		DepartmentID:   dto.DepartmentID,
		VehiclePurpose: dto.VehiclePurpose,
		PurposeReason:  dto.PurposeReason,
		LocationType:   dto.LocationType,
		StartDate:      dto.StartDate,
		EndDate:        dto.EndDate,
		Agreement:      dto.Agreement,
		Status:         model.StatusPending,
	}
	req.ResetChain()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		ticket, n, err := s.tickets.Next(txCtx)
		if err != nil {
			return err
		}
		req.TicketNumber = ticket

		if err := s.requests.Create(txCtx, &req); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrTicketConflict, ticket)
			}
			return fmt.Errorf("failed to create vehicle request: %w", err)
		}
		if err := s.tickets.Commit(txCtx, n); err != nil {
			return err
		}

		return s.writeAudit(txCtx, nil, model.ActionCreateVehicleRequest, &req, map[string]interface{}{
			"ticket_number": req.TicketNumber,
			"location_type": req.LocationType,
			"department_id": req.DepartmentID,
		})
	})
	if err != nil {
		return nil, err
	}

	req.Department = dept
	s.log.Info().
		Str("ticket_number", req.TicketNumber).
		Uint("department_id", req.DepartmentID).
		Str("location_type", req.LocationType).
		Msg("vehicle request submitted")

	s.notifier.Dispatch(ctx, &req, approval.PlanSubmission(&req))
	s.notifier.Publish(ctx, notification.NewEvent(notification.EventSubmitted, &req, 0, "", approval.AwaitingLevel(&req), nil, s.now()))

	return toVehicleRequestResponse(&req), nil
}

func (s *vehicleRequestService) Decide(ctx context.Context, id uint, dto DecideApprovalDTO, actor Actor) (*VehicleRequestResponse, error) {
	var out approval.Outcome

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.requests.FindByID(txCtx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load vehicle request: %w", err)
		}

		if err := authorizeDecision(actor, current, dto.Level); err != nil {
			return err
		}
		if err := approval.ValidateTransition(current, dto.Level, dto.Status); err != nil {
			return err
		}

		out = approval.ApplyTransition(*current, approval.Transition{
			Level:    dto.Level,
			Decision: dto.Status,
			ActorID:  actor.ID,
			Notes:    strings.TrimSpace(dto.Notes),
		}, s.now())

		if err := s.requests.Update(txCtx, &out.Request); err != nil {
			return fmt.Errorf("failed to update vehicle request: %w", err)
		}

		action := model.ActionApproveLevel
		if dto.Status == model.StatusRejected {
			action = model.ActionRejectLevel
		}
		actorID := actor.ID
		return s.writeAudit(txCtx, &actorID, action, &out.Request, map[string]interface{}{
			"ticket_number": out.Request.TicketNumber,
			"level":         dto.Level,
			"decision":      dto.Status,
			"notes":         out.Notes,
			"status":        out.Request.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	req := &out.Request
	s.log.Info().
		Str("ticket_number", req.TicketNumber).
		Int("level", out.Level).
		Str("decision", out.Decision).
		Uint("actor_id", out.ActorID).
		Str("status", req.Status).
		Msg("approval decided")

	s.notifier.Dispatch(ctx, req, approval.PlanDecision(out))
	actorID := out.ActorID
	s.notifier.Publish(ctx, notification.NewEvent(
		notification.DecisionEventType(req.Status), req, out.Level, out.Decision, approval.AwaitingLevel(req), &actorID, s.now(),
	))

	return toVehicleRequestResponse(req), nil
}

func (s *vehicleRequestService) SearchByTicket(ctx context.Context, ticketNumber string) (*VehicleRequestResponse, error) {
	ticketNumber = strings.ToUpper(strings.TrimSpace(ticketNumber))
	if ticketNumber == "" {
		return nil, ErrVehicleRequestNotFound
	}
	req, err := s.requests.FindByTicketNumber(ctx, ticketNumber)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVehicleRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicle request: %w", err)
	}
	return toVehicleRequestResponse(req), nil
}

func (s *vehicleRequestService) GetByID(ctx context.Context, id uint) (*VehicleRequestResponse, error) {
	req, err := s.requests.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVehicleRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle request: %w", err)
	}
	return toVehicleRequestResponse(req), nil
}

func (s *vehicleRequestService) List(ctx context.Context, filter VehicleRequestFilter) ([]VehicleRequestResponse, int64, error) {
	switch filter.Status {
	case "", model.StatusPending, model.StatusApproved, model.StatusRejected:
	default:
		return nil, 0, fmt.Errorf("%w: unknown status filter %q", ErrInvalidRequest, filter.Status)
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	requests, total, err := s.requests.List(ctx, filter.Status, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vehicle requests: %w", err)
	}

	result := make([]VehicleRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toVehicleRequestResponse(&requests[i]))
	}
	return result, total, nil
}

func (s *vehicleRequestService) Delete(ctx context.Context, id uint, actor Actor) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByID(txCtx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load vehicle request: %w", err)
		}

		deleted, err := s.requests.Delete(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to delete vehicle request: %w", err)
		}
		if !deleted {
			return ErrVehicleRequestNotFound
		}

		actorID := actor.ID
		return s.writeAudit(txCtx, &actorID, model.ActionDeleteVehicleRequest, req, map[string]interface{}{
			"ticket_number": req.TicketNumber,
			"status":        req.Status,
		})
	})
}

func (s *vehicleRequestService) writeAudit(ctx context.Context, userID *uint, action string, req *model.VehicleRequest, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	entry := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   fmt.Sprintf("%d", req.ID),
		EntityName: req.TicketNumber,
		Details:    datatypes.JSON(payload),
	}
	if err := s.audits.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// authorizeDecision lets admins and the oversight role decide any level.
// Everyone else must hold the role bound to the level and, for department
// scoped levels, belong to the request's department.
func authorizeDecision(actor Actor, req *model.VehicleRequest, level int) error {
	if !approval.CanDecide(actor.Role, level) {
		return fmt.Errorf("%w: %s cannot decide level %d", ErrLevelForbidden, actor.Role, level)
	}
	if actor.Role == model.RoleAdmin || actor.Role == approval.OversightRole {
		return nil
	}
	b, _ := approval.BindingFor(level)
	if b.DepartmentScoped && (actor.DepartmentID == nil || *actor.DepartmentID != req.DepartmentID) {
		return fmt.Errorf("%w: request belongs to another department", ErrLevelForbidden)
	}
	return nil
}

func validateCreate(dto CreateVehicleRequestDTO) error {
	for field, value := range map[string]string{
		"service_type":    dto.ServiceType,
		"name":            dto.Name,
		"nik":             dto.NIK,
		"email":           dto.Email,
		"vehicle_purpose": dto.VehiclePurpose,
		"purpose_reason":  dto.PurposeReason,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
		}
	}
	for field, f := range map[string]struct {
		value string
		max   int
	}{
		"service_type":    {dto.ServiceType, 100},
		"name":            {dto.Name, 100},
		"nik":             {dto.NIK, MaxNIKLength},
		"email":           {dto.Email, 100},
		"vehicle_purpose": {dto.VehiclePurpose, 100},
	} {
		if utf8.RuneCountInString(strings.TrimSpace(f.value)) > f.max {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidRequest, field, f.max)
		}
	}
	if dto.DepartmentID == 0 {
		return fmt.Errorf("%w: department_id is required", ErrInvalidRequest)
	}
	if dto.LocationType != model.LocationDesaBinaan && dto.LocationType != model.LocationNonDesaBinaan {
		return fmt.Errorf("%w: location_type must be %s or %s", ErrInvalidRequest, model.LocationDesaBinaan, model.LocationNonDesaBinaan)
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrInvalidRequest)
	}
	if dto.EndDate.Before(dto.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", ErrInvalidRequest)
	}
	if !dto.Agreement {
		return fmt.Errorf("%w: agreement must be accepted", ErrInvalidRequest)
	}
	return nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toVehicleRequestResponse(req *model.VehicleRequest) *VehicleRequestResponse {
	maxLevel := approval.ApplicableMaxLevel(req.LocationType)

	approvals := make([]ApprovalLevelResponse, 0, maxLevel)
	for level := 1; level <= maxLevel; level++ {
		slot := req.Slot(level)
		b, _ := approval.BindingFor(level)
		approvals = append(approvals, ApprovalLevelResponse{
			Level:  level,
			Label:  b.Label,
			Role:   b.Role,
			Status: slot.Status,
			By:     slot.By,
			At:     formatTime(slot.At),
			Notes:  slot.Notes,
		})
	}

	departmentName := ""
	if req.Department != nil {
		departmentName = req.Department.Name
	}

	return &VehicleRequestResponse{
		ID:                 req.ID,
		TicketNumber:       req.TicketNumber,
		ServiceType:        req.ServiceType,
		Name:               req.Name,
		NIK:                req.NIK,
		Email:              req.Email,
		DepartmentID:       req.DepartmentID,
		DepartmentName:     departmentName,
		VehiclePurpose:     req.VehiclePurpose,
		PurposeReason:      req.PurposeReason,
		LocationType:       req.LocationType,
		StartDate:          req.StartDate.Format(time.RFC3339),
		EndDate:            req.EndDate.Format(time.RFC3339),
		Agreement:          req.Agreement,
		Status:             req.Status,
		ApplicableMaxLevel: maxLevel,
		AwaitingLevel:      approval.AwaitingLevel(req),
		Approvals:          approvals,
		ApprovedBy:         req.ApprovedBy,
		ApprovedAt:         formatTime(req.ApprovedAt),
		RejectionReason:    req.RejectionReason,
		CreatedAt:          req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          req.UpdatedAt.Format(time.RFC3339),
	}
}
