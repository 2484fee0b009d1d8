package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
	"clinic_crm_backend/internal/storage"
	"clinic_crm_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientValidation = errors.New("client data validation error")
	ErrDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrUploadFailed     = errors.New("photo upload failed")
)

// --- Client DTOs ---

// SaveClientRequest is the full client record; saving replaces every field.
type SaveClientRequest struct {
	Name            string                  `json:"name" binding:"required"`
	CPF             string                  `json:"cpf"`
	BirthDate       string                  `json:"birth_date"` // YYYY-MM-DD
	Phone           string                  `json:"phone"`
	Email           string                  `json:"email"`
	Address         string                  `json:"address"`
	ClinicalNotes   string                  `json:"clinical_notes"`
	ClinicalHistory []models.ClinicalRecord `json:"clinical_history"`
	LGPDConsent     bool                    `json:"lgpd_consent"`
	LGPDTimestamp   *time.Time              `json:"lgpd_timestamp"`
	Status          models.ClientStatus     `json:"status"`
	Source          models.LeadSource       `json:"source"`
	Tags            []string                `json:"tags"`
	LastProcedure   *string                 `json:"last_procedure"`
	TotalSpent      float64                 `json:"total_spent"`
	PhotoURL        *string                 `json:"photo_url"`
}

type ClientFilter struct {
	Search string              // name (case-insensitive) or CPF substring
	Status models.ClientStatus // empty means all
}

type AddClinicalRecordRequest struct {
	Date             string   `json:"date"` // defaults to today
	Procedure        string   `json:"procedure" binding:"required"`
	Notes            string   `json:"notes"`
	ProfessionalName string   `json:"professional_name"`
	Attachments      []string `json:"attachments"`
}

// PhotoFile is one uploaded file as received by the handler.
type PhotoFile struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// --- ClientService Interface ---
type ClientService interface {
	ListClients(filter ClientFilter) []models.Client
	GetClient(clientID string) (*models.Client, error)
	SaveClient(ctx context.Context, clientID string, req SaveClientRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
	AddClinicalRecord(ctx context.Context, clientID string, req AddClinicalRecordRequest) (*models.Client, error)
	UploadPhotos(ctx context.Context, clientID string, files []PhotoFile) ([]string, error)
}

// --- clientService Implementation ---
type clientService struct {
	state               *appstate.State
	store               storage.ObjectStore
	defaultProfessional string
	loc                 *time.Location
	now                 Clock
}

// NewClientService creates a new instance of ClientService.
func NewClientService(state *appstate.State, store storage.ObjectStore, defaultProfessional string, loc *time.Location, now Clock) ClientService {
	if now == nil {
		now = time.Now
	}
	return &clientService{state: state, store: store, defaultProfessional: defaultProfessional, loc: loc, now: now}
}

func (s *clientService) ListClients(filter ClientFilter) []models.Client {
	search := strings.TrimSpace(filter.Search)
	return s.state.Clients.Filter(func(c models.Client) bool {
		if filter.Status != "" && c.Status != filter.Status {
			return false
		}
		if search == "" {
			return true
		}
		return utils.ContainsFold(c.Name, search) || strings.Contains(c.CPF, search)
	})
}

func (s *clientService) GetClient(clientID string) (*models.Client, error) {
	client, ok := s.state.Clients.Get(clientID)
	if !ok {
		return nil, ErrClientNotFound
	}
	return &client, nil
}

func (s *clientService) validate(req *SaveClientRequest) error {
	if utils.IsEmpty(req.Name) {
		return fmt.Errorf("%w: name cannot be empty", ErrClientValidation)
	}
	if req.Status == "" {
		req.Status = models.ClientStatusLead
	}
	if !req.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrClientValidation, req.Status)
	}
	if req.Source == "" {
		req.Source = models.LeadSourceInstagram
	}
	if !req.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrClientValidation, req.Source)
	}
	if req.BirthDate != "" && !validDate(req.BirthDate) {
		return ErrDateFormat
	}
	if req.Email != "" && !utils.IsValidEmail(req.Email) {
		return fmt.Errorf("%w: email format is invalid", ErrClientValidation)
	}
	if req.TotalSpent < 0 {
		return fmt.Errorf("%w: total spent cannot be negative", ErrClientValidation)
	}
	return nil
}

// SaveClient creates the client when clientID is empty, otherwise replaces it.
func (s *clientService) SaveClient(ctx context.Context, clientID string, req SaveClientRequest) (*models.Client, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	client := models.Client{
		ID:              clientID,
		Name:            strings.TrimSpace(req.Name),
		CPF:             strings.TrimSpace(req.CPF),
		BirthDate:       req.BirthDate,
		Phone:           strings.TrimSpace(req.Phone),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Address:         req.Address,
		ClinicalNotes:   req.ClinicalNotes,
		ClinicalHistory: req.ClinicalHistory,
		LGPDConsent:     req.LGPDConsent,
		LGPDTimestamp:   req.LGPDTimestamp,
		Status:          req.Status,
		Source:          req.Source,
		Tags:            req.Tags,
		LastProcedure:   req.LastProcedure,
		TotalSpent:      req.TotalSpent,
		PhotoURL:        req.PhotoURL,
	}
	if client.ClinicalHistory == nil {
		client.ClinicalHistory = []models.ClinicalRecord{}
	}
	if client.Tags == nil {
		client.Tags = []string{}
	}
	// Consent is recorded at the first save that grants it and dropped when withdrawn.
	if !client.LGPDConsent {
		client.LGPDTimestamp = nil
	} else if client.LGPDTimestamp == nil {
		ts := s.now().UTC()
		client.LGPDTimestamp = &ts
	}

	saved, err := s.state.Clients.Save(ctx, client)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string) error {
	if _, ok := s.state.Clients.Get(clientID); !ok {
		return ErrClientNotFound
	}
	if err := s.state.Clients.Delete(ctx, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	return nil
}

// AddClinicalRecord prepends an evolution entry and re-saves the whole client.
func (s *clientService) AddClinicalRecord(ctx context.Context, clientID string, req AddClinicalRecordRequest) (*models.Client, error) {
	if utils.IsEmpty(req.Procedure) {
		return nil, fmt.Errorf("%w: procedure cannot be empty", ErrClientValidation)
	}
	if req.Date == "" {
		req.Date = s.now().In(s.loc).Format(dateLayout)
	} else if !validDate(req.Date) {
		return nil, ErrDateFormat
	}
	professional := strings.TrimSpace(req.ProfessionalName)
	if professional == "" {
		professional = s.defaultProfessional
	}
	attachments := req.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	record := models.ClinicalRecord{
		ID:               uuid.NewString(),
		Date:             req.Date,
		Procedure:        strings.TrimSpace(req.Procedure),
		Notes:            req.Notes,
		ProfessionalName: professional,
		Attachments:      attachments,
	}
	updated, err := s.state.Clients.Update(ctx, clientID, func(c *models.Client) error {
		c.ClinicalHistory = append([]models.ClinicalRecord{record}, c.ClinicalHistory...)
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// UploadPhotos stores every file under the client's folder concurrently and
// returns the public URLs in input order. Any failure fails the whole batch and
// removes the objects already written.
func (s *clientService) UploadPhotos(ctx context.Context, clientID string, files []PhotoFile) ([]string, error) {
	if _, ok := s.state.Clients.Get(clientID); !ok {
		return nil, ErrClientNotFound
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", ErrClientValidation)
	}

	ms := s.now().UnixMilli()
	urls := make([]string, len(files))
	written := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			body, err := f.Open()
			if err != nil {
				return fmt.Errorf("opening %s: %w", f.Name, err)
			}
			defer body.Close()

			// The short id keeps same-named files in one batch apart.
			objectPath := fmt.Sprintf("%s/%d-%s-%s", clientID, ms, uuid.NewString()[:8], path.Base(f.Name))
			url, err := s.store.Upload(gctx, objectPath, f.ContentType, body)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", f.Name, err)
			}
			urls[i] = url
			written[i] = objectPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.removeObjects(context.WithoutCancel(ctx), written)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return urls, nil
}

func (s *clientService) removeObjects(ctx context.Context, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.store.Remove(ctx, p); err != nil {
			utils.LogWarn(err, "failed to remove orphaned photo "+p)
		}
	}
}
