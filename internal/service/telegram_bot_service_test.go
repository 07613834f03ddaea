package service

import (
	"context"
	"strings"
	"testing"

	"vehicle-request-api/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: chatID, FirstName: "Siti"},
			Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}

type botFixture struct {
	svc      TelegramBotService
	subs     *fakeSubscriberRepo
	requests *fakeRequestRepo
	channel  *fakeChannel
}

func newBot() *botFixture {
	subs := newFakeSubscriberRepo()
	requests := newFakeRequestRepo()
	channel := &fakeChannel{}
	return &botFixture{
		svc:      NewTelegramBotService(subs, requests, channel, zerolog.Nop()),
		subs:     subs,
		requests: requests,
		channel:  channel,
	}
}

func (b *botFixture) send(t *testing.T, text string) string {
	t.Helper()
	before := len(b.channel.sent)
	if err := b.svc.HandleUpdate(context.Background(), textUpdate(555, text)); err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
	if len(b.channel.sent) == before {
		return ""
	}
	return b.channel.sent[len(b.channel.sent)-1].text
}

func TestStartRegistersSubscriberOnce(t *testing.T) {
	b := newBot()

	if reply := b.send(t, "/start"); !strings.Contains(reply, "Selamat datang") {
		t.Fatalf("unexpected welcome: %s", reply)
	}
	sub, ok := b.subs.subs["555"]
	if !ok || sub.Name != "Siti" || !sub.IsActive {
		t.Fatalf("subscriber not registered: %+v", sub)
	}

	if reply := b.send(t, "/start"); !strings.Contains(reply, "Halo kembali") || !strings.Contains(reply, "/daftar") {
		t.Fatalf("returning user should be asked to link a NIK: %s", reply)
	}
}

func TestStartWithTicketPayload(t *testing.T) {
	b := newBot()
	req := model.VehicleRequest{TicketNumber: "GA-TR-07", NIK: "3201000000000007"}
	_ = b.requests.Create(context.Background(), &req)

	reply := b.send(t, "/start ga-tr-07")
	if !strings.Contains(reply, "GA-TR-07") || !strings.Contains(reply, "/daftar 3201000000000007") {
		t.Fatalf("deep link hint missing: %s", reply)
	}
}

func TestRegisterNIK(t *testing.T) {
	b := newBot()

	if reply := b.send(t, "/daftar 12345"); reply != botInvalidNIKText {
		t.Fatalf("short NIK must be refused, got %s", reply)
	}
	if reply := b.send(t, "/daftar "+strings.Repeat("3", MaxNIKLength+1)); reply != botInvalidNIKText {
		t.Fatalf("NIK wider than the column must be refused, got %s", reply)
	}
	if _, ok := b.subs.subs["555"]; ok {
		t.Fatalf("refused NIK must not register the chat")
	}

	if reply := b.send(t, "/daftar 3201000000000001"); !strings.Contains(reply, "Berhasil") {
		t.Fatalf("unexpected reply %s", reply)
	}
	subs, _ := b.subs.ListByNIK(context.Background(), "3201000000000001")
	if len(subs) != 1 || subs[0].ChatID != "555" {
		t.Fatalf("NIK not linked: %+v", subs)
	}

	if reply := b.send(t, "/start"); !strings.Contains(reply, "3201000000000001") {
		t.Fatalf("returning user should see linked NIK: %s", reply)
	}
}

func TestCheckTicketStatus(t *testing.T) {
	b := newBot()
	req := model.VehicleRequest{TicketNumber: "GA-TR-03", Name: "Budi", LocationType: model.LocationDesaBinaan, Status: model.StatusPending}
	req.ResetChain()
	req.SetSlot(1, model.ApprovalSlot{Status: model.StatusApproved})
	_ = b.requests.Create(context.Background(), &req)

	reply := b.send(t, "/cek ga-tr-03")
	if !strings.Contains(reply, "GA-TR-03") || !strings.Contains(reply, "✅ Level 1") {
		t.Fatalf("unexpected status reply: %s", reply)
	}
	if strings.Contains(reply, "Level 4") {
		t.Fatalf("level 4 must not be shown for desa binaan: %s", reply)
	}

	if reply := b.send(t, "/cek GA-TR-99"); !strings.Contains(reply, "tidak ditemukan") {
		t.Fatalf("unknown ticket reply: %s", reply)
	}
}

func TestHelpAndUnknownCommands(t *testing.T) {
	b := newBot()
	for _, cmd := range []string{"/help", "/bantuan", "/help@LpkImmBot"} {
		if reply := b.send(t, cmd); reply != botHelpText {
			t.Fatalf("%s: unexpected reply %s", cmd, reply)
		}
	}
	if reply := b.send(t, "halo"); reply != "" {
		t.Fatalf("free text must be ignored, got %s", reply)
	}
	if err := b.svc.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 2}); err != nil {
		t.Fatalf("update without message: %v", err)
	}
}
