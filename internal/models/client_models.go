package models

import "time"

// ClientStatus is the lifecycle stage of a patient record.
type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "LEAD"
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusLead, ClientStatusActive, ClientStatusInactive:
		return true
	}
	return false
}

// LeadSource is the acquisition channel of a client.
type LeadSource string

const (
	LeadSourceInstagram LeadSource = "Instagram"
	LeadSourceFacebook  LeadSource = "Facebook"
	LeadSourceGoogleAds LeadSource = "Google Ads"
	LeadSourceWebsite   LeadSource = "Website"
	LeadSourceReferral  LeadSource = "Indicação"
	LeadSourceWhatsApp  LeadSource = "WhatsApp"
	LeadSourceOther     LeadSource = "Outros"
)

// LeadSources is the fixed, ordered channel list used by conversion reports.
var LeadSources = []LeadSource{
	LeadSourceInstagram,
	LeadSourceFacebook,
	LeadSourceGoogleAds,
	LeadSourceWebsite,
	LeadSourceReferral,
	LeadSourceWhatsApp,
	LeadSourceOther,
}

// Valid reports whether s is one of LeadSources.
func (s LeadSource) Valid() bool {
	for _, known := range LeadSources {
		if s == known {
			return true
		}
	}
	return false
}

// ClinicalRecord is one entry of a client's clinical evolution.
type ClinicalRecord struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"` // YYYY-MM-DD
	Procedure        string   `json:"procedure"`
	Notes            string   `json:"notes"`
	ProfessionalName string   `json:"professional_name"`
	Attachments      []string `json:"attachments,omitempty"` // before/after photo URLs
}

// Client represents a patient of the clinic.
type Client struct {
	ID              string           `json:"id"`
	Name            string           `json:"name" binding:"required"`
	CPF             string           `json:"cpf"`
	BirthDate       string           `json:"birth_date"` // YYYY-MM-DD
	Phone           string           `json:"phone"`
	Email           string           `json:"email"`
	Address         string           `json:"address"`
	ClinicalNotes   string           `json:"clinical_notes"`
	ClinicalHistory []ClinicalRecord `json:"clinical_history"`
	LGPDConsent     bool             `json:"lgpd_consent"`
	LGPDTimestamp   *time.Time       `json:"lgpd_timestamp,omitempty"`
	Status          ClientStatus     `json:"status"`
	Source          LeadSource       `json:"source"`
	Tags            []string         `json:"tags"`
	LastProcedure   *string          `json:"last_procedure,omitempty"`
	TotalSpent      float64          `json:"total_spent"`
	PhotoURL        *string          `json:"photo_url,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (c Client) Clone() Client {
	out := c
	if c.ClinicalHistory != nil {
		out.ClinicalHistory = make([]ClinicalRecord, len(c.ClinicalHistory))
		for i, r := range c.ClinicalHistory {
			r.Attachments = append([]string(nil), r.Attachments...)
			out.ClinicalHistory[i] = r
		}
	}
	if c.Tags != nil {
		out.Tags = append([]string{}, c.Tags...)
	}
	if c.LGPDTimestamp != nil {
		ts := *c.LGPDTimestamp
		out.LGPDTimestamp = &ts
	}
	return out
}
