package handler

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/repository"
)

// OrganizerRegistrationHandler owns the registration views of the
// authenticated organizer: guest list, CSV export, check-in and bulk
// delete.
type OrganizerRegistrationHandler struct {
	Partitions *database.Manager
}

func NewOrganizerRegistrationHandler(m *database.Manager) *OrganizerRegistrationHandler {
	return &OrganizerRegistrationHandler{Partitions: m}
}

type registrationRow struct {
	ID           uint64    `json:"id"`
	GuestName    string    `json:"guest_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Company      string    `json:"company,omitempty"`
	Dietary      string    `json:"dietary,omitempty"`
	EventPackage string    `json:"package"`
	TicketID     string    `json:"ticket_id"`
	RegisteredAt time.Time `json:"registered_at"`
	CheckedIn    bool      `json:"checked_in"`
}

func registrationPayload(reg *model.Registration) registrationRow {
	return registrationRow{
		ID:           reg.ID,
		GuestName:    reg.GuestName,
		Phone:        reg.Phone,
		Email:        reg.Email,
		Company:      reg.Company,
		Dietary:      reg.Dietary,
		EventPackage: reg.EventPackage,
		TicketID:     reg.TicketID,
		RegisteredAt: reg.RegisteredAt,
		CheckedIn:    reg.CheckedIn,
	}
}

// event loads the event after resolving the tenant partition, shared by
// every route below. When the returned event is nil the error response
// has already been written and callers return the error as is.
func (h *OrganizerRegistrationHandler) event(c echo.Context) (*sql.DB, *model.Event, error) {
	tenant, err := tenantID(c)
	if err != nil {
		return nil, nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := strings.TrimSpace(c.Param("id"))
	if eventID == "" {
		return nil, nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	db, tid, err := h.Partitions.Tenant(tenant)
	if err != nil {
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "open partition failed"})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	ev, err := repository.NewEventRepo(db).GetByID(ctx, tid, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, nil, c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return nil, nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return db, ev, nil
}

// ListRegistrations handles GET /v1/events/:id/registrations, newest
// first, with the summary counters the dashboard shows.
func (h *OrganizerRegistrationHandler) ListRegistrations(c echo.Context) error {
	db, ev, err := h.event(c)
	if ev == nil {
		return err
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	regs := repository.NewRegistrationRepo(db)
	rows, err := regs.ListByEvent(ctx, ev.TenantID, ev.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list registrations failed"})
	}
	total, checkedIn, err := regs.CountsByEvent(ctx, ev.TenantID, ev.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count registrations failed"})
	}

	items := make([]registrationRow, 0, len(rows))
	for i := range rows {
		items = append(items, registrationPayload(&rows[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":      items,
		"total":      total,
		"checked_in": checkedIn,
	})
}

// ExportRegistrations handles GET /v1/events/:id/registrations/export
// and streams the guest list as a CSV download, oldest first.
func (h *OrganizerRegistrationHandler) ExportRegistrations(c echo.Context) error {
	db, ev, err := h.event(c)
	if ev == nil {
		return err
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	rows, err := repository.NewRegistrationRepo(db).ExportByEvent(ctx, ev.TenantID, ev.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export registrations failed"})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"name", "phone", "email", "company", "dietary", "package", "ticket_id", "checked_in", "registered_at"})
	for i := range rows {
		reg := &rows[i]
		_ = w.Write([]string{
			reg.GuestName,
			reg.Phone,
			reg.Email,
			reg.Company,
			reg.Dietary,
			reg.EventPackage,
			reg.TicketID,
			strconv.FormatBool(reg.CheckedIn),
			reg.RegisteredAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "write csv failed"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s-registrations.csv", ev.EventID))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// DeleteRegistrations handles DELETE /v1/events/:id/registrations. The
// event itself stays; only its guest list is cleared.
func (h *OrganizerRegistrationHandler) DeleteRegistrations(c echo.Context) error {
	db, ev, err := h.event(c)
	if ev == nil {
		return err
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	n, err := repository.NewRegistrationRepo(db).DeleteByEvent(ctx, ev.TenantID, ev.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete registrations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

type checkInReq struct {
	TicketID string `json:"ticket_id"`
}

// CheckIn handles POST /v1/events/:id/checkin. Repeat presentations of
// one ticket answer 200 with ALREADY_CHECKED_IN; only an unknown ticket
// is a 404.
func (h *OrganizerRegistrationHandler) CheckIn(c echo.Context) error {
	db, ev, err := h.event(c)
	if ev == nil {
		return err
	}
	var req checkInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ticket := strings.TrimSpace(req.TicketID)
	if ticket == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id required"})
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	res, err := repository.NewRegistrationRepo(db).CheckIn(ctx, ev.TenantID, ev.EventID, ticket)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}
	if res.Status == model.CheckInNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"status": res.Status, "error": "ticket not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": res.Status, "guest_name": res.GuestName})
}
