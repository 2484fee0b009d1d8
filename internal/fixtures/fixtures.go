// Package fixtures supplies the illustrative series the dashboard screens show
// where no real data source exists yet. Everything returned from here is
// wrapped in a Section flagged as placeholder so it is never mistaken for
// production figures.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Section marks a block of placeholder data in an API response.
type Section[T any] struct {
	Placeholder bool `json:"placeholder"`
	Data        T    `json:"data"`
}

func placeholder[T any](data T) *Section[T] {
	return &Section[T]{Placeholder: true, Data: data}
}

type MonthlyPoint struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
	Leads int    `json:"leads"`
}

type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Activity struct {
	User   string `json:"user"`
	Action string `json:"action"`
	Time   string `json:"time"`
}

type Campaign struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Sent   int    `json:"sent"`
	Opens  int    `json:"opens"`
	Type   string `json:"type"`
}

type Conversation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LastMessage string `json:"last_message"`
	Time        string `json:"time"`
	Unread      int    `json:"unread"`
	Avatar      string `json:"avatar"`
	Online      bool   `json:"online"`
}

type RevenuePoint struct {
	Date    string `json:"date"`
	Value   int    `json:"value"`
	Clients int    `json:"clients"`
}

type TrendPoint struct {
	Day       int `json:"day"`
	Scheduled int `json:"scheduled"`
	Effected  int `json:"effected"`
}

// Provider returns nil sections when disabled, so responses simply omit them.
type Provider struct {
	enabled bool
}

func NewProvider(enabled bool) *Provider {
	return &Provider{enabled: enabled}
}

func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

func (p *Provider) MonthlySales() *Section[[]MonthlyPoint] {
	if !p.Enabled() {
		return nil
	}
	return placeholder([]MonthlyPoint{
		{Name: "Jan", Sales: 4200, Leads: 2800},
		{Name: "Fev", Sales: 3800, Leads: 1900},
		{Name: "Mar", Sales: 5100, Leads: 4200},
		{Name: "Abr", Sales: 4900, Leads: 3100},
		{Name: "Mai", Sales: 5800, Leads: 4500},
		{Name: "Jun", Sales: 6200, Leads: 5100},
	})
}

func (p *Provider) SpecialtyMix() *Section[[]NamedValue] {
	if !p.Enabled() {
		return nil
	}
	return placeholder([]NamedValue{
		{Name: "Botox", Value: 45},
		{Name: "Preenchimento", Value: 25},
		{Name: "Limpeza de Pele", Value: 15},
		{Name: "Laser", Value: 15},
	})
}

func (p *Provider) ActivityFeed() *Section[[]Activity] {
	if !p.Enabled() {
		return nil
	}
	return placeholder([]Activity{
		{User: "Mariana Almeida", Action: "Contratou Bioestimulador", Time: "agora"},
		{User: "Clínica Centro", Action: "Confirmação via ChatBot", Time: "15min"},
		{User: "Google Ads", Action: "Novo Lead: Harmonização", Time: "1h"},
	})
}

func (p *Provider) Campaigns() *Section[[]Campaign] {
	if !p.Enabled() {
		return nil
	}
	return placeholder([]Campaign{
		{ID: 1, Name: "Lembretes Automáticos 24h", Status: "Ativa", Sent: 124, Opens: 118, Type: "WhatsApp API"},
		{ID: 2, Name: "Reativação de Leads (30d)", Status: "Ativa", Sent: 45, Opens: 32, Type: "WhatsApp API"},
		{ID: 3, Name: "Promoção Verão Botox", Status: "Enviada", Sent: 850, Opens: 620, Type: "WhatsApp API"},
	})
}

func (p *Provider) Conversations() *Section[[]Conversation] {
	if !p.Enabled() {
		return nil
	}
	return placeholder([]Conversation{
		{ID: "1", Name: "Beatriz Costa", LastMessage: "Tudo bem, aguardo você.", Time: "10:30", Unread: 2, Online: true},
		{ID: "2", Name: "Renata Souza", LastMessage: "Qual o valor do botox?", Time: "09:45", Avatar: "https://picsum.photos/id/11/50/50"},
		{ID: "3", Name: "Maria Helena", LastMessage: "Confirmado para amanhã às 14h.", Time: "Ontem", Avatar: "https://picsum.photos/id/12/50/50", Online: true},
	})
}

var monthAbbrPtBR = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// RevenueSeries is a daily series ending today. It is seeded by the end date so
// the same day always renders the same curve.
func (p *Provider) RevenueSeries(today time.Time, days int) *Section[[]RevenuePoint] {
	if !p.Enabled() {
		return nil
	}
	rng := seeded(today)
	points := make([]RevenuePoint, days)
	for i := range points {
		d := today.AddDate(0, 0, -(days - 1 - i))
		points[i] = RevenuePoint{
			Date:    fmt.Sprintf("%02d de %s.", d.Day(), monthAbbrPtBR[d.Month()-1]),
			Value:   2000 + rng.IntN(8000),
			Clients: rng.IntN(12),
		}
	}
	return placeholder(points)
}

// OperationsTrend is the scheduled-versus-effected series of the operations report.
func (p *Provider) OperationsTrend(today time.Time, days int) *Section[[]TrendPoint] {
	if !p.Enabled() {
		return nil
	}
	rng := seeded(today)
	points := make([]TrendPoint, days)
	for i := range points {
		points[i] = TrendPoint{Day: i + 1, Scheduled: 5 + rng.IntN(10), Effected: 4 + rng.IntN(8)}
	}
	return placeholder(points)
}

func seeded(day time.Time) *rand.Rand {
	y, m, d := day.Date()
	return rand.New(rand.NewPCG(uint64(y), uint64(m)*100+uint64(d)))
}
