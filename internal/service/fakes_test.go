package service

import (
	"context"
	"sort"
	"sync"

	"vehicle-request-api/internal/approval"
	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/notification"
	"vehicle-request-api/internal/repository"

	"gorm.io/gorm"
)

type fakeRequestRepo struct {
	mu     sync.Mutex
	rows   map[uint]model.VehicleRequest
	nextID uint
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{rows: map[uint]model.VehicleRequest{}, nextID: 1}
}

func (r *fakeRequestRepo) Create(_ context.Context, req *model.VehicleRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.TicketNumber == req.TicketNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	req.ID = r.nextID
	r.nextID++
	r.rows[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uint) (*model.VehicleRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *fakeRequestRepo) FindByTicketNumber(_ context.Context, ticketNumber string) (*model.VehicleRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.TicketNumber == ticketNumber {
			found := row
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRequestRepo) List(_ context.Context, status string, page, limit int) ([]model.VehicleRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.VehicleRequest
	for _, row := range r.rows {
		if status == "" || row.Status == status {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	start := (page - 1) * limit
	if start >= len(out) {
		return []model.VehicleRequest{}, total, nil
	}
	end := min(start+limit, len(out))
	return out[start:end], total, nil
}

func (r *fakeRequestRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeRequestRepo) Update(_ context.Context, req *model.VehicleRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) Delete(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

// seed stores n placeholder requests numbered 1..n.
func (r *fakeRequestRepo) seed(prefix string, n int) {
	for i := 1; i <= n; i++ {
		req := model.VehicleRequest{TicketNumber: FormatTicketNumber(prefix, int64(i)), LocationType: model.LocationNonDesaBinaan}
		req.ResetChain()
		_ = r.Create(context.Background(), &req)
	}
}

type fakeCounterRepo struct {
	last map[string]int64
}

func newFakeCounterRepo() *fakeCounterRepo { return &fakeCounterRepo{last: map[string]int64{}} }

func (c *fakeCounterRepo) LastNumber(_ context.Context, prefix string) (int64, error) {
	return c.last[prefix], nil
}

func (c *fakeCounterRepo) SaveLastNumber(_ context.Context, prefix string, n int64) error {
	c.last[prefix] = n
	return nil
}

type fakeDepartmentRepo struct {
	departments map[uint]model.Department
}

func (d *fakeDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	out := make([]model.Department, 0, len(d.departments))
	for _, dept := range d.departments {
		out = append(out, dept)
	}
	return out, nil
}

func (d *fakeDepartmentRepo) GetByID(_ context.Context, id uint) (*model.Department, error) {
	dept, ok := d.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &dept, nil
}

type fakeAuditRepo struct {
	entries []model.AuditLog
	filter  repository.AuditFilter
}

func (a *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	a.entries = append(a.entries, *entry)
	return nil
}

func (a *fakeAuditRepo) List(_ context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	a.filter = filter
	return a.entries, int64(len(a.entries)), nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	notices [][]approval.Notice
	events  []notification.Event
}

func (n *recordingNotifier) Dispatch(_ context.Context, _ *model.VehicleRequest, notices []approval.Notice) notification.Report {
	n.notices = append(n.notices, notices)
	return notification.Report{}
}

func (n *recordingNotifier) Publish(_ context.Context, event notification.Event) {
	n.events = append(n.events, event)
}

func (n *recordingNotifier) last() []approval.Notice {
	if len(n.notices) == 0 {
		return nil
	}
	return n.notices[len(n.notices)-1]
}

type fakeSubscriberRepo struct {
	subs map[string]model.TelegramSubscriber
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{subs: map[string]model.TelegramSubscriber{}}
}

func (f *fakeSubscriberRepo) FindByChatID(_ context.Context, chatID string) (*model.TelegramSubscriber, error) {
	sub, ok := f.subs[chatID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sub, nil
}

func (f *fakeSubscriberRepo) Create(_ context.Context, sub *model.TelegramSubscriber) error {
	if _, ok := f.subs[sub.ChatID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.subs[sub.ChatID] = *sub
	return nil
}

func (f *fakeSubscriberRepo) LinkNIK(_ context.Context, chatID, nik string) error {
	sub, ok := f.subs[chatID]
	if !ok {
		return nil
	}
	sub.NIK = &nik
	f.subs[chatID] = sub
	return nil
}

func (f *fakeSubscriberRepo) ListByNIK(_ context.Context, nik string) ([]model.TelegramSubscriber, error) {
	var out []model.TelegramSubscriber
	for _, sub := range f.subs {
		if sub.NIK != nil && *sub.NIK == nik {
			out = append(out, sub)
		}
	}
	return out, nil
}

type sentReply struct {
	chatID string
	text   string
}

type fakeChannel struct {
	sent []sentReply
	err  error
}

func (c *fakeChannel) Send(_ context.Context, address, text string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentReply{chatID: address, text: text})
	return nil
}
