package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/config"
	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/service"
	"github.com/iliyamo/event-registration/internal/utils"
)

// OrganizerHandler owns the event endpoints of the authenticated
// organizer. Partition repositories are constructed per request around
// the resolved tenant handle; only the short-link index lives in the
// shared registry.
type OrganizerHandler struct {
	Cfg        config.Config
	Partitions *database.Manager
	Links      *repository.LinkRepo
	Copy       service.CopyWriter
}

func NewOrganizerHandler(cfg config.Config, m *database.Manager, links *repository.LinkRepo, cw service.CopyWriter) *OrganizerHandler {
	return &OrganizerHandler{Cfg: cfg, Partitions: m, Links: links, Copy: cw}
}

// ----- DTOs -----

// createEventReq uses pointers for the collect flags so absent keys fall
// back to the defaults instead of reading as false.
type createEventReq struct {
	Name           string `json:"name"`
	EventDate      string `json:"event_date"`
	Description    string `json:"description"`
	CollectName    *bool  `json:"collect_name"`
	CollectPhone   *bool  `json:"collect_phone"`
	CollectEmail   *bool  `json:"collect_email"`
	CollectCompany *bool  `json:"collect_company"`
	CollectDietary *bool  `json:"collect_dietary"`
}

type eventResp struct {
	EventID         string    `json:"event_id"`
	Name            string    `json:"name"`
	EventDate       string    `json:"event_date"`
	Description     string    `json:"description"`
	CollectedFields []string  `json:"collected_fields"`
	RequiredFields  []string  `json:"required_fields"`
	CreatedAt       time.Time `json:"created_at"`
}

type eventDetailResp struct {
	eventResp
	ShortCode       string `json:"short_code,omitempty"`
	RegistrationURL string `json:"registration_url"`
	Registrations   int64  `json:"registrations"`
	CheckedIn       int64  `json:"checked_in"`
}

func eventPayload(e *model.Event) eventResp {
	return eventResp{
		EventID:         e.EventID,
		Name:            e.Name,
		EventDate:       e.EventDate,
		Description:     e.Description,
		CollectedFields: e.Fields.CollectedFields(),
		RequiredFields:  e.Fields.RequiredFields(),
		CreatedAt:       e.CreatedAt,
	}
}

// CreateEvent handles POST /v1/events. The event row, its short code
// and, when the organizer left the description empty, the generated
// blurb are all produced here; only the event row is mandatory, the
// rest degrades.
func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	date := strings.TrimSpace(req.EventDate)

	fields := model.DefaultFieldRequirements()
	if req.CollectName != nil {
		fields.Name = *req.CollectName
	}
	if req.CollectPhone != nil {
		fields.Phone = *req.CollectPhone
	}
	if req.CollectEmail != nil {
		fields.Email = *req.CollectEmail
	}
	if req.CollectCompany != nil {
		fields.Company = *req.CollectCompany
	}
	if req.CollectDietary != nil {
		fields.Dietary = *req.CollectDietary
	}

	db, tid, err := h.Partitions.Tenant(tenant)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open partition failed"})
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = service.Describe(c.Request().Context(), h.Copy, name, date)
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	ev := model.Event{
		EventID:     utils.NewEventID(),
		TenantID:    tid,
		Name:        name,
		EventDate:   date,
		Description: description,
		Fields:      fields,
	}
	if err := repository.NewEventRepo(db).Create(ctx, &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}

	// The event is committed; losing the short code leaves the direct
	// URL usable, so any link error only gets logged.
	code := ""
	if link, err := h.Links.Create(ctx, tid, ev.EventID); err != nil {
		log.Printf("event %s: short code creation failed: %v", ev.EventID, err)
	} else {
		code = link.Code
	}

	return c.JSON(http.StatusCreated, h.detailPayload(&ev, code, 0, 0))
}

// ListEvents handles GET /v1/events, newest first.
func (h *OrganizerHandler) ListEvents(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	db, tid, err := h.Partitions.Tenant(tenant)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open partition failed"})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	events, err := repository.NewEventRepo(db).ListByTenant(ctx, tid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	items := make([]eventResp, 0, len(events))
	for i := range events {
		items = append(items, eventPayload(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /v1/events/:id and returns the event together
// with its registration URL, short code and counters.
func (h *OrganizerHandler) GetEvent(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := strings.TrimSpace(c.Param("id"))
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	db, tid, err := h.Partitions.Tenant(tenant)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open partition failed"})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	ev, err := repository.NewEventRepo(db).GetByID(ctx, tid, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	total, checkedIn, err := repository.NewRegistrationRepo(db).CountsByEvent(ctx, tid, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count registrations failed"})
	}

	code := ""
	if link, err := h.Links.GetByEvent(ctx, tid, eventID); err == nil {
		code = link.Code
	}
	return c.JSON(http.StatusOK, h.detailPayload(ev, code, total, checkedIn))
}

// EventQR handles GET /v1/events/:id/qr. The image encodes the short
// registration link; a missing code is created on demand so older
// events whose code draw failed can heal here.
func (h *OrganizerHandler) EventQR(c echo.Context) error {
	tenant, err := tenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := strings.TrimSpace(c.Param("id"))
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	db, tid, err := h.Partitions.Tenant(tenant)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open partition failed"})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	if _, err := repository.NewEventRepo(db).GetByID(ctx, tid, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}

	link, err := h.Links.GetByEvent(ctx, tid, eventID)
	if errors.Is(err, repository.ErrLinkNotFound) {
		link, err = h.Links.Create(ctx, tid, eventID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrLinkConflict) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "could not issue a link, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load link failed"})
	}

	img, err := utils.QRPNG(utils.LinkURL(h.Cfg.BaseURL, link.Code))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render qr failed"})
	}
	return c.Blob(http.StatusOK, "image/png", img)
}

// detailPayload assembles the detail response. The registration URL
// prefers the short link and falls back to the direct tenant/event URL
// when no code exists.
func (h *OrganizerHandler) detailPayload(e *model.Event, code string, total, checkedIn int64) eventDetailResp {
	url := utils.EventURL(h.Cfg.BaseURL, e.TenantID, e.EventID)
	if code != "" {
		url = utils.LinkURL(h.Cfg.BaseURL, code)
	}
	return eventDetailResp{
		eventResp:       eventPayload(e),
		ShortCode:       code,
		RegistrationURL: url,
		Registrations:   total,
		CheckedIn:       checkedIn,
	}
}
