// Package messaging composes WhatsApp deep links and the reminder texts sent
// through them. Nothing is delivered from the server; the link opens a
// pre-filled compose screen on the operator's device.
package messaging

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"
)

var monthsPtBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Composer builds links and messages for one clinic.
type Composer struct {
	CountryCode string
	ClinicName  string
}

func NewComposer(countryCode, clinicName string) *Composer {
	return &Composer{CountryCode: countryCode, ClinicName: clinicName}
}

// WhatsAppLink returns the wa.me compose URL for a phone number in any format.
func (c *Composer) WhatsAppLink(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	return "https://wa.me/" + c.CountryCode + digits + "?text=" + EncodeURIComponent(text)
}

// ReminderMessage is the day-before confirmation request sent to a client.
func (c *Composer) ReminderMessage(clientName, procedure, date, hour string) string {
	return fmt.Sprintf("Olá %s! ✨ Passando para confirmar seu procedimento de *%s* amanhã, dia *%s* às *%s* na %s. Podemos confirmar sua presença? 🌸",
		clientName, procedure, FormatLongDate(date), hour, c.ClinicName)
}

// ProfessionalAlertMessage reminds a professional of tomorrow's appointment.
func (c *Composer) ProfessionalAlertMessage(professionalName, clientName, procedure, hour string) string {
	return fmt.Sprintf("Olá %s! 🗓️ Lembrete de Agenda: Amanhã às *%s* você tem um atendimento de *%s* com o(a) paciente *%s*.",
		professionalName, hour, procedure, clientName)
}

// FormatLongDate renders 2024-06-05 as "05 de junho". Unparseable input is returned unchanged.
func FormatLongDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%02d de %s", d.Day(), monthsPtBR[d.Month()-1])
}

// encodeURIComponent leaves these unescaped in addition to url.QueryEscape's set.
var uriComponentKeep = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// EncodeURIComponent percent-encodes s the way browsers encode a URI component.
func EncodeURIComponent(s string) string {
	return uriComponentKeep.Replace(url.QueryEscape(s))
}
