package notification

import (
	"fmt"
	"html"
	"strings"

	"vehicle-request-api/internal/approval"
	"vehicle-request-api/internal/model"
)

const footer = "---\nLPK-IMM Vehicle Request System"

const timeLayout = "02 Jan 2006 15:04"

// FormatNotice renders the Telegram HTML text of a notice.
func FormatNotice(n approval.Notice, req *model.VehicleRequest, departmentName string) string {
	var b strings.Builder

	switch n.Kind {
	case approval.KindTicketReceipt:
		fmt.Fprintf(&b, "🎫 <b>Tiket Permohonan Kendaraan</b>\n\nHalo <b>%s</b>!\n\n", esc(req.Name))
		b.WriteString("Permohonan kendaraan Anda berhasil disubmit.\n\n")
		fmt.Fprintf(&b, "📋 <b>Nomor Tiket:</b>\n<code>%s</code>\n\n", esc(req.TicketNumber))
		b.WriteString("Simpan nomor tiket ini untuk mengecek status permohonan Anda.\n")

	case approval.KindAwaitingDecision:
		fmt.Fprintf(&b, "📥 <b>Permohonan Menunggu Persetujuan Anda</b>\n\n")
		writeDetails(&b, req, departmentName)
		fmt.Fprintf(&b, "\nMenunggu approval <b>Level %d (%s)</b>.\n", n.Level, approval.LevelLabel(n.Level))

	case approval.KindOversightSubmitted:
		b.WriteString("🆕 <b>Permohonan Kendaraan Baru</b>\n\n")
		writeDetails(&b, req, departmentName)

	case approval.KindOversightDecision:
		fmt.Fprintf(&b, "📋 <b>Update Approval %s</b>\n\n", esc(req.TicketNumber))
		fmt.Fprintf(&b, "%s Level %d (%s): <b>%s</b>\n", statusEmoji(n.Decision), n.Level, approval.LevelLabel(n.Level), esc(n.Decision))
		writeNotes(&b, n.Notes)
		if n.NextLevel > 0 {
			fmt.Fprintf(&b, "Berikutnya: Level %d (%s)\n", n.NextLevel, approval.LevelLabel(n.NextLevel))
		} else {
			fmt.Fprintf(&b, "Status akhir: <b>%s</b>\n", esc(req.Status))
		}

	case approval.KindProgress:
		fmt.Fprintf(&b, "⏳ <b>Progres Permohonan %s</b>\n\n", esc(req.TicketNumber))
		fmt.Fprintf(&b, "Permohonan Anda telah disetujui pada Level %d (%s).\n", n.Level, approval.LevelLabel(n.Level))
		writeNotes(&b, n.Notes)
		fmt.Fprintf(&b, "Saat ini menunggu approval Level %d (%s).\n", n.NextLevel, approval.LevelLabel(n.NextLevel))

	case approval.KindFinalApproved:
		fmt.Fprintf(&b, "✅ <b>Permohonan %s Disetujui</b>\n\n", esc(req.TicketNumber))
		b.WriteString("Seluruh tahap approval telah selesai. Permohonan kendaraan Anda disetujui.\n")
		writeNotes(&b, n.Notes)

	case approval.KindRejected:
		fmt.Fprintf(&b, "❌ <b>Permohonan %s Ditolak</b>\n\n", esc(req.TicketNumber))
		fmt.Fprintf(&b, "Permohonan Anda ditolak pada Level %d (%s).\n", n.Level, approval.LevelLabel(n.Level))
		writeNotes(&b, n.Notes)

	default:
		fmt.Fprintf(&b, "Update permohonan %s: %s\n", esc(req.TicketNumber), esc(req.Status))
	}

	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

// FormatStatus renders the per-level status of a request. Levels above the
// applicable maximum are not shown.
func FormatStatus(req *model.VehicleRequest) string {
	var b strings.Builder
	b.WriteString("📋 <b>Status Tiket</b>\n\n")
	fmt.Fprintf(&b, "<b>Nomor:</b> <code>%s</code>\n", esc(req.TicketNumber))
	fmt.Fprintf(&b, "<b>Nama:</b> %s\n", esc(req.Name))
	fmt.Fprintf(&b, "<b>Keperluan:</b> %s\n\n", esc(req.PurposeReason))
	b.WriteString("<b>Status Approval:</b>\n")

	maxLevel := approval.ApplicableMaxLevel(req.LocationType)
	for level := 1; level <= maxLevel; level++ {
		slot := req.Slot(level)
		fmt.Fprintf(&b, "%s Level %d (%s): %s\n", statusEmoji(slot.Status), level, approval.LevelLabel(level), esc(slot.Status))
	}
	fmt.Fprintf(&b, "\n<b>Status:</b> %s", esc(req.Status))
	return b.String()
}

func writeDetails(b *strings.Builder, req *model.VehicleRequest, departmentName string) {
	fmt.Fprintf(b, "<b>Tiket:</b> <code>%s</code>\n", esc(req.TicketNumber))
	fmt.Fprintf(b, "<b>Nama:</b> %s\n", esc(req.Name))
	fmt.Fprintf(b, "<b>Departemen:</b> %s\n", esc(departmentName))
	fmt.Fprintf(b, "<b>Keperluan:</b> %s\n", esc(req.PurposeReason))
	fmt.Fprintf(b, "<b>Lokasi:</b> %s\n", locationLabel(req.LocationType))
	fmt.Fprintf(b, "<b>Waktu:</b> %s s/d %s\n", req.StartDate.Format(timeLayout), req.EndDate.Format(timeLayout))
}

func writeNotes(b *strings.Builder, notes string) {
	if notes != "" {
		fmt.Fprintf(b, "<b>Catatan:</b> %s\n", esc(notes))
	}
}

func statusEmoji(status string) string {
	switch status {
	case model.StatusApproved:
		return "✅"
	case model.StatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}

func locationLabel(locationType string) string {
	if locationType == model.LocationDesaBinaan {
		return "Desa Binaan"
	}
	return "Non-Desa Binaan"
}

func esc(s string) string { return html.EscapeString(s) }
