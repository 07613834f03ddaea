// Package notification delivers approval chain notices to people over an
// external chat channel and publishes machine readable events to sinks.
//
// Every operation is best-effort: failures are logged and never returned, so
// a notification problem cannot fail or roll back an approval.
package notification

import (
	"context"

	"vehicle-request-api/internal/approval"
	"vehicle-request-api/internal/model"

	"github.com/rs/zerolog"
)

// Directory resolves audiences to people.
type Directory interface {
	UsersByRole(ctx context.Context, role string, departmentID *uint) ([]model.User, error)
	// UserByEmail returns nil, nil when no active user has the address.
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	SubscribersByNIK(ctx context.Context, nik string) ([]model.TelegramSubscriber, error)
	DepartmentName(ctx context.Context, id uint) (string, error)
}

// Channel sends a formatted text to one channel address.
type Channel interface {
	Send(ctx context.Context, address, text string) error
}

// EventSink receives one event per submission or decision.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}

// Report summarises one Dispatch call.
type Report struct {
	Sent    int
	Skipped int
	Failed  int
}

type Dispatcher struct {
	directory Directory
	channel   Channel
	sinks     []EventSink
	log       zerolog.Logger
}

// NewDispatcher builds a dispatcher. channel may be nil, in which case
// notices are resolved and counted as skipped.
func NewDispatcher(directory Directory, channel Channel, log zerolog.Logger, sinks ...EventSink) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		channel:   channel,
		sinks:     sinks,
		log:       log.With().Str("component", "notification").Logger(),
	}
}

// Dispatch sends every notice in order. Recipients without a channel address
// are skipped; send errors are logged and counted.
func (d *Dispatcher) Dispatch(ctx context.Context, req *model.VehicleRequest, notices []approval.Notice) Report {
	var report Report
	departmentName := d.departmentName(ctx, req)

	for _, notice := range notices {
		addresses, skipped := d.resolve(ctx, notice.Audience)
		report.Skipped += skipped
		if len(addresses) == 0 {
			continue
		}
		if d.channel == nil {
			report.Skipped += len(addresses)
			continue
		}

		text := FormatNotice(notice, req, departmentName)
		for _, address := range addresses {
			if err := d.channel.Send(ctx, address, text); err != nil {
				report.Failed++
				d.log.Warn().Err(err).
					Str("ticket_number", req.TicketNumber).
					Str("kind", string(notice.Kind)).
					Str("address", address).
					Msg("notification: send failed (non-fatal)")
				continue
			}
			report.Sent++
		}
	}

	d.log.Debug().
		Str("ticket_number", req.TicketNumber).
		Int("sent", report.Sent).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("notification: dispatch finished")
	return report
}

// Publish hands event to every sink.
func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			d.log.Warn().Err(err).
				Str("event_type", event.Type).
				Str("ticket_number", event.TicketNumber).
				Msg("notification: failed to publish event (non-fatal)")
		}
	}
}

// resolve returns the distinct channel addresses of an audience and the
// number of members that had none.
func (d *Dispatcher) resolve(ctx context.Context, aud approval.Audience) ([]string, int) {
	var chatIDs []*string

	switch aud.Kind {
	case approval.AudienceRole, approval.AudienceRoleInDepartment:
		var dept *uint
		if aud.Kind == approval.AudienceRoleInDepartment {
			id := aud.DepartmentID
			dept = &id
		}
		users, err := d.directory.UsersByRole(ctx, aud.Role, dept)
		if err != nil {
			d.log.Warn().Err(err).Str("role", aud.Role).Msg("notification: failed to resolve role")
			return nil, 0
		}
		for i := range users {
			chatIDs = append(chatIDs, users[i].TelegramChatID)
		}
	case approval.AudienceEmail:
		user, err := d.directory.UserByEmail(ctx, aud.Email)
		if err != nil {
			d.log.Warn().Err(err).Str("email", aud.Email).Msg("notification: failed to resolve requester")
			return nil, 0
		}
		if user != nil {
			chatIDs = append(chatIDs, user.TelegramChatID)
		}
	case approval.AudienceNIK:
		subs, err := d.directory.SubscribersByNIK(ctx, aud.NIK)
		if err != nil {
			d.log.Warn().Err(err).Msg("notification: failed to resolve subscribers")
			return nil, 0
		}
		for i := range subs {
			chatIDs = append(chatIDs, &subs[i].ChatID)
		}
	}

	seen := make(map[string]bool, len(chatIDs))
	addresses := make([]string, 0, len(chatIDs))
	skipped := 0
	for _, id := range chatIDs {
		if id == nil || *id == "" {
			skipped++
			continue
		}
		if seen[*id] {
			continue
		}
		seen[*id] = true
		addresses = append(addresses, *id)
	}
	return addresses, skipped
}

func (d *Dispatcher) departmentName(ctx context.Context, req *model.VehicleRequest) string {
	if req.Department != nil {
		return req.Department.Name
	}
	name, err := d.directory.DepartmentName(ctx, req.DepartmentID)
	if err != nil {
		d.log.Debug().Err(err).Uint("department_id", req.DepartmentID).Msg("notification: department name unavailable")
		return "-"
	}
	return name
}
