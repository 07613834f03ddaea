package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"vehicle-request-api/internal/model"
	"vehicle-request-api/internal/notification"
	"vehicle-request-api/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NIK length bounds accepted by /daftar. The upper bound is the column width.
const (
	MinNIKLength = 10
	MaxNIKLength = 20
)

const (
	botHelpText = "📖 <b>Panduan Bot LPK-IMM</b>\n\n" +
		"<b>Perintah tersedia:</b>\n\n" +
		"📝 <code>/daftar NIK</code>\nDaftarkan NIK Anda untuk menerima notifikasi otomatis\n\n" +
		"🔍 <code>/cek NOMOR_TIKET</code>\nCek status tiket permohonan\n\n" +
		"❓ <code>/help</code>\nTampilkan panduan ini\n\n" +
		"---\nHubungi admin jika ada masalah."

	botWelcomeText = "🎉 <b>Selamat datang di LPK-IMM Bot!</b>\n\n" +
		"Anda telah berhasil terdaftar untuk menerima notifikasi tiket permohonan kendaraan.\n\n" +
		"<b>Cara menghubungkan NIK Anda:</b>\nKirim pesan dengan format:\n<code>/daftar NIK_ANDA</code>\n\n" +
		"Contoh: <code>/daftar 1234567890123456</code>\n\n" +
		"Setelah terdaftar, setiap kali Anda membuat permohonan kendaraan, nomor tiket akan otomatis dikirim ke sini."

	botInvalidNIKText = "❌ NIK tidak valid. Pastikan NIK 10 sampai 20 karakter."
)

// TelegramBotService answers bot commands received through the webhook.
type TelegramBotService interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

type telegramBotService struct {
	subscribers repository.TelegramSubscriberRepository
	requests    repository.VehicleRequestRepository
	channel     notification.Channel
	log         zerolog.Logger
}

// NewTelegramBotService wires the command handler. channel may be nil, in
// which case commands are processed and replies are dropped.
func NewTelegramBotService(subscribers repository.TelegramSubscriberRepository, requests repository.VehicleRequestRepository, channel notification.Channel, log zerolog.Logger) TelegramBotService {
	return &telegramBotService{
		subscribers: subscribers,
		requests:    requests,
		channel:     channel,
		log:         log.With().Str("component", "telegram_bot").Logger(),
	}
}

// HandleUpdate dispatches a text command. Updates without a text message and
// unknown commands are ignored.
func (s *telegramBotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Text == "" || msg.Chat == nil {
		return nil
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	command, arg := splitCommand(msg.Text)

	switch command {
	case "/start":
		return s.handleStart(ctx, chatID, msg.From, arg)
	case "/daftar":
		return s.handleRegister(ctx, chatID, msg.From, arg)
	case "/cek":
		return s.handleCheck(ctx, chatID, arg)
	case "/help", "/bantuan":
		s.reply(ctx, chatID, botHelpText)
		return nil
	default:
		return nil
	}
}

func (s *telegramBotService) handleStart(ctx context.Context, chatID string, from *tgbotapi.User, payload string) error {
	existing, err := s.subscribers.FindByChatID(ctx, chatID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load subscriber: %w", err)
	}

	if existing != nil {
		s.reply(ctx, chatID, welcomeBackText(existing))
		return nil
	}

	sub := &model.TelegramSubscriber{ChatID: chatID, Name: displayName(from), IsActive: true}
	if err := s.subscribers.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to register subscriber: %w", err)
	}
	s.log.Info().Str("chat_id", chatID).Msg("telegram subscriber registered")

	text := botWelcomeText
	if payload != "" {
		req, err := s.requests.FindByTicketNumber(ctx, strings.ToUpper(payload))
		if err == nil {
			text += fmt.Sprintf("\n\n---\n\n📋 <b>Tiket Anda:</b>\n<code>%s</code>\n\nUntuk menghubungkan NIK, kirim:\n<code>/daftar %s</code>",
				html.EscapeString(req.TicketNumber), html.EscapeString(req.NIK))
		}
	}
	s.reply(ctx, chatID, text)
	return nil
}

func (s *telegramBotService) handleRegister(ctx context.Context, chatID string, from *tgbotapi.User, nik string) error {
	if len(nik) < MinNIKLength || len(nik) > MaxNIKLength {
		s.reply(ctx, chatID, botInvalidNIKText)
		return nil
	}

	_, err := s.subscribers.FindByChatID(ctx, chatID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := &model.TelegramSubscriber{ChatID: chatID, NIK: &nik, Name: displayName(from), IsActive: true}
		if err := s.subscribers.Create(ctx, sub); err != nil {
			return fmt.Errorf("failed to register subscriber: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to load subscriber: %w", err)
	default:
		if err := s.subscribers.LinkNIK(ctx, chatID, nik); err != nil {
			return fmt.Errorf("failed to link nik: %w", err)
		}
	}

	s.log.Info().Str("chat_id", chatID).Msg("telegram subscriber linked to nik")
	s.reply(ctx, chatID, fmt.Sprintf("✅ <b>Berhasil!</b>\n\nNIK <code>%s</code> telah terdaftar.\n\n"+
		"Sekarang setiap kali Anda membuat permohonan kendaraan dengan NIK ini, nomor tiket akan otomatis dikirim ke sini.",
		html.EscapeString(nik)))
	return nil
}

func (s *telegramBotService) handleCheck(ctx context.Context, chatID, ticket string) error {
	ticket = strings.ToUpper(ticket)
	if ticket == "" {
		s.reply(ctx, chatID, "Format: <code>/cek NOMOR_TIKET</code>")
		return nil
	}

	req, err := s.requests.FindByTicketNumber(ctx, ticket)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.reply(ctx, chatID, fmt.Sprintf("❌ Tiket <code>%s</code> tidak ditemukan.", html.EscapeString(ticket)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load ticket: %w", err)
	}

	s.reply(ctx, chatID, notification.FormatStatus(req))
	return nil
}

func (s *telegramBotService) reply(ctx context.Context, chatID, text string) {
	if s.channel == nil {
		s.log.Debug().Str("chat_id", chatID).Msg("telegram channel not configured, reply dropped")
		return
	}
	if err := s.channel.Send(ctx, chatID, text); err != nil {
		s.log.Warn().Err(err).Str("chat_id", chatID).Msg("telegram reply failed")
	}
}

func welcomeBackText(sub *model.TelegramSubscriber) string {
	var b strings.Builder
	b.WriteString("👋 <b>Halo kembali!</b>\n\nAnda sudah terdaftar di sistem kami")
	if sub.NIK != nil && *sub.NIK != "" {
		fmt.Fprintf(&b, " dengan NIK: %s.\n\nAnda akan menerima notifikasi tiket secara otomatis.", html.EscapeString(*sub.NIK))
		return b.String()
	}
	b.WriteString(".\n\nUntuk menghubungkan NIK, kirim:\n<code>/daftar NIK_ANDA</code>")
	return b.String()
}

// splitCommand separates "/cmd@BotName arg" into "/cmd" and "arg".
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	command, arg, _ := strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), strings.TrimSpace(arg)
}

func displayName(from *tgbotapi.User) string {
	if from == nil {
		return "User"
	}
	if from.FirstName != "" {
		return strings.TrimSpace(from.FirstName + " " + from.LastName)
	}
	if from.UserName != "" {
		return from.UserName
	}
	return "User"
}
