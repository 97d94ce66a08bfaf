package handler

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/config"
	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/queue"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/service"
	"github.com/iliyamo/event-registration/internal/utils"
)

// GuestHandler owns the public endpoints: resolving registration links
// and taking guest submissions. No authentication; a link or a
// tenant/event pair is all a guest ever holds.
type GuestHandler struct {
	Cfg        config.Config
	Partitions *database.Manager
	Organizers *repository.OrganizerRepo
	Links      *repository.LinkRepo
}

func NewGuestHandler(cfg config.Config, m *database.Manager, o *repository.OrganizerRepo, links *repository.LinkRepo) *GuestHandler {
	return &GuestHandler{Cfg: cfg, Partitions: m, Organizers: o, Links: links}
}

// ----- DTOs -----

// publicEventResp is what a form renderer needs and nothing more; no
// counters, no short code, no organizer detail.
type publicEventResp struct {
	TenantID        string   `json:"tenant_id"`
	EventID         string   `json:"event_id"`
	Name            string   `json:"name"`
	EventDate       string   `json:"event_date"`
	Description     string   `json:"description"`
	CollectedFields []string `json:"collected_fields"`
	RequiredFields  []string `json:"required_fields"`
	Packages        []string `json:"packages"`
}

func publicEvent(e *model.Event) publicEventResp {
	return publicEventResp{
		TenantID:        e.TenantID,
		EventID:         e.EventID,
		Name:            e.Name,
		EventDate:       e.EventDate,
		Description:     e.Description,
		CollectedFields: e.Fields.CollectedFields(),
		RequiredFields:  e.Fields.RequiredFields(),
		Packages:        model.Packages,
	}
}

type registrationReq struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	Dietary      string `json:"dietary"`
	EventPackage string `json:"package"`
}

type registrationResp struct {
	EventID      string    `json:"event_id"`
	EventName    string    `json:"event_name"`
	EventDate    string    `json:"event_date"`
	GuestName    string    `json:"guest_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Company      string    `json:"company,omitempty"`
	Dietary      string    `json:"dietary,omitempty"`
	EventPackage string    `json:"package"`
	TicketID     string    `json:"ticket_id"`
	TicketQR     string    `json:"ticket_qr_png"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ResolveLink handles GET /v1/links/:code and returns the public fields
// of the linked event. Unknown and dangling codes answer the same 404.
func (h *GuestHandler) ResolveLink(c echo.Context) error {
	_, ev, err := h.eventFromCode(c)
	if ev == nil {
		return err
	}
	return c.JSON(http.StatusOK, publicEvent(ev))
}

// RegisterViaLink handles POST /v1/links/:code/registrations.
func (h *GuestHandler) RegisterViaLink(c echo.Context) error {
	db, ev, err := h.eventFromCode(c)
	if ev == nil {
		return err
	}
	return h.register(c, db, ev)
}

// ResolveEvent handles GET /v1/tenants/:tenant/events/:event, the
// direct variant a guest hits when no short code exists.
func (h *GuestHandler) ResolveEvent(c echo.Context) error {
	_, ev, err := h.eventFromPath(c)
	if ev == nil {
		return err
	}
	return c.JSON(http.StatusOK, publicEvent(ev))
}

// Register handles POST /v1/tenants/:tenant/events/:event/registrations.
func (h *GuestHandler) Register(c echo.Context) error {
	db, ev, err := h.eventFromPath(c)
	if ev == nil {
		return err
	}
	return h.register(c, db, ev)
}

// eventFromCode resolves a short code through the registry index and
// loads the event. When the returned event is nil the error response
// has already been written.
func (h *GuestHandler) eventFromCode(c echo.Context) (*sql.DB, *model.Event, error) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "invalid link"})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	link, err := h.Links.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "invalid link"})
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve link failed"})
	}

	db, tid, err := h.Partitions.Tenant(link.TenantID)
	if err != nil {
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "open partition failed"})
	}
	ev, err := repository.NewEventRepo(db).GetByID(ctx, tid, link.EventID)
	if err != nil {
		// A dangling code reads the same as a bad one.
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "invalid link"})
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return db, ev, nil
}

// eventFromPath loads the event named by the direct tenant/event URL.
// The organizer account is checked before any partition is resolved so
// made-up tenant names cannot create partition files on disk. A miss at
// any step is the same generic 404.
func (h *GuestHandler) eventFromPath(c echo.Context) (*sql.DB, *model.Event, error) {
	tenant := strings.TrimSpace(c.Param("tenant"))
	eventID := strings.TrimSpace(c.Param("event"))
	if tenant == "" || eventID == "" {
		return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	org, err := h.Organizers.GetByTenant(ctx, tenant)
	if err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve tenant failed"})
	}

	db, tid, err := h.Partitions.Tenant(org.TenantID)
	if err != nil {
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "open partition failed"})
	}
	ev, err := repository.NewEventRepo(db).GetByID(ctx, tid, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return db, ev, nil
}

// register runs one submission through Collecting, Validating and
// Persisted. Fields the event does not collect are dropped before
// validation, so nothing a client smuggles in ever reaches storage.
func (h *GuestHandler) register(c echo.Context, db *sql.DB, ev *model.Event) error {
	var req registrationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	// Collecting: keep only what the event asks for.
	if !ev.Fields.Name {
		req.Name = ""
	}
	if !ev.Fields.Phone {
		req.Phone = ""
	}
	if !ev.Fields.Email {
		req.Email = ""
	}
	if !ev.Fields.Company {
		req.Company = ""
	}
	if !ev.Fields.Dietary {
		req.Dietary = ""
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Company = strings.TrimSpace(req.Company)
	req.Dietary = strings.TrimSpace(req.Dietary)
	req.EventPackage = strings.TrimSpace(req.EventPackage)

	// Validating: required fields non-empty, package a known member.
	missing := make([]string, 0, 4)
	if ev.Fields.Name && req.Name == "" {
		missing = append(missing, model.FieldName)
	}
	if ev.Fields.Phone && req.Phone == "" {
		missing = append(missing, model.FieldPhone)
	}
	if ev.Fields.Email && req.Email == "" {
		missing = append(missing, model.FieldEmail)
	}
	if !model.ValidPackage(req.EventPackage) {
		missing = append(missing, model.FieldPackage)
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":          "validation failed",
			"missing_fields": missing,
		})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	reg := model.Registration{
		EventID:      ev.EventID,
		TenantID:     ev.TenantID,
		GuestName:    req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Company:      req.Company,
		Dietary:      req.Dietary,
		EventPackage: req.EventPackage,
	}
	if err := repository.NewRegistrationRepo(db).Create(ctx, &reg); err != nil {
		if errors.Is(err, repository.ErrTicketConflict) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "could not issue a ticket, please resubmit"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save registration failed"})
	}

	// The QR carries the bare ticket ID; the check-in scanner needs
	// nothing else. The row is committed, so a render failure only
	// costs the inline image.
	ticketQR := ""
	if img, err := utils.QRPNG(reg.TicketID); err != nil {
		log.Printf("registration %s: qr render failed: %v", reg.TicketID, err)
	} else {
		ticketQR = base64.StdEncoding.EncodeToString(img)
	}

	// Fire and forget; the guest never waits on the broker.
	confirmed := queue.RegistrationConfirmedEvent{
		TenantID:     reg.TenantID,
		EventID:      reg.EventID,
		EventName:    ev.Name,
		TicketID:     reg.TicketID,
		GuestName:    reg.GuestName,
		EventPackage: reg.EventPackage,
		RegisteredAt: reg.RegisteredAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := service.PublishRegistrationConfirmed(pubCtx, confirmed); err != nil {
			log.Printf("registration %s: publish failed: %v", confirmed.TicketID, err)
		}
	}()

	return c.JSON(http.StatusCreated, registrationResp{
		EventID:      ev.EventID,
		EventName:    ev.Name,
		EventDate:    ev.EventDate,
		GuestName:    reg.GuestName,
		Phone:        reg.Phone,
		Email:        reg.Email,
		Company:      reg.Company,
		Dietary:      reg.Dietary,
		EventPackage: reg.EventPackage,
		TicketID:     reg.TicketID,
		TicketQR:     ticketQR,
		RegisteredAt: reg.RegisteredAt,
	})
}
