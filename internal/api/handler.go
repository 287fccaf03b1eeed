// Package api exposes the records store over a local JSON HTTP API.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shms/shms/internal/domain/admin"
	"github.com/shms/shms/internal/platform/auth"
	"github.com/shms/shms/internal/store"
)

type Handler struct {
	store    *store.Store
	logger   zerolog.Logger
	autosave bool
	lowStock int
}

// Options configures a Handler.
type Options struct {
	// Autosave persists the store after every successful mutation.
	Autosave bool
	// LowStockThreshold is the default for GET /medicines/low-stock.
	LowStockThreshold int
}

func NewHandler(s *store.Store, logger zerolog.Logger, opts Options) *Handler {
	return &Handler{
		store:    s,
		logger:   logger.With().Str("component", "api").Logger(),
		autosave: opts.Autosave,
		lowStock: opts.LowStockThreshold,
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	const (
		adm = admin.RoleAdmin
		rec = admin.RoleReceptionist
		doc = admin.RoleDoctor
		pat = admin.RolePatient
		stf = admin.RoleStaff
	)

	api.GET("/me", h.Me)
	api.GET("/people/:id", h.GetPerson, auth.RequireRole(rec, doc, stf))

	// Patients. Patient accounts only see their own record.
	api.GET("/patients", h.ListPatients, auth.RequireRole(rec, doc))
	api.POST("/patients", h.CreatePatient, auth.RequireRole(rec))
	api.GET("/patients/:id", h.GetPatient, auth.RequireRole(rec, doc, pat))
	api.POST("/patients/:id/history", h.AddPatientHistory, auth.RequireRole(doc))
	api.PUT("/patients/:id/insurance", h.SetPatientInsurance, auth.RequireRole(rec))
	api.GET("/patients/:id/appointments", h.ListPatientAppointments, auth.RequireRole(rec, doc, pat))
	api.GET("/patients/:id/bills", h.ListPatientBills, auth.RequireRole(rec, pat))

	// Doctors and staff.
	api.GET("/doctors", h.ListDoctors)
	api.POST("/doctors", h.CreateDoctor, auth.RequireRole(adm))
	api.GET("/doctors/:id", h.GetDoctor)
	api.GET("/doctors/:id/availability", h.DoctorAvailability)
	api.GET("/doctors/:id/appointments", h.ListDoctorAppointments, auth.RequireRole(rec, doc))
	api.GET("/staff", h.ListStaff, auth.RequireRole(adm))
	api.POST("/staff", h.CreateStaff, auth.RequireRole(adm))

	// Appointments.
	api.GET("/appointments", h.ListAppointments, auth.RequireRole(rec, doc))
	api.POST("/appointments", h.ScheduleAppointment, auth.RequireRole(rec))
	api.GET("/appointments/:id", h.GetAppointment, auth.RequireRole(rec, doc))
	api.DELETE("/appointments/:id", h.CancelAppointment, auth.RequireRole(rec))

	// Billing.
	api.GET("/bills", h.ListBills, auth.RequireRole(rec))
	api.POST("/bills", h.CreateBill, auth.RequireRole(rec))
	api.GET("/bills/:id", h.GetBill, auth.RequireRole(rec))
	api.POST("/bills/:id/items", h.AddBillItem, auth.RequireRole(rec))

	// Pharmacy and department services.
	api.GET("/medicines", h.ListMedicines, auth.RequireRole(stf, doc))
	api.POST("/medicines", h.AddMedicine, auth.RequireRole(stf))
	api.GET("/medicines/low-stock", h.LowStock, auth.RequireRole(stf, doc))
	api.POST("/medicines/:name/issue", h.IssueMedicine, auth.RequireRole(stf, doc))
	api.POST("/services/:service", h.PerformService, auth.RequireRole(doc, stf))

	// Administration.
	api.GET("/users", h.ListUsers, auth.RequireRole(adm))
	api.POST("/users", h.CreateUser, auth.RequireRole(adm))
	api.GET("/stats", h.Stats, auth.RequireRole(adm))
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	roles := auth.RolesFromContext(ctx)
	role := ""
	if len(roles) > 0 {
		role = roles[0]
	}
	return c.JSON(http.StatusOK, map[string]any{
		"username":  auth.UserIDFromContext(ctx),
		"role":      role,
		"linked_id": auth.LinkedIDFromContext(ctx),
	})
}

// saved persists the store when autosave is on. The mutation has already
// happened in memory, so a failure is reported as a 500.
func (h *Handler) saved(c echo.Context) error {
	if !h.autosave {
		return nil
	}
	if err := h.store.SaveAll(); err != nil {
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("autosave failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "change applied but not saved")
	}
	return nil
}

// storeError maps store sentinel errors onto HTTP statuses.
func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidDateTime),
		errors.Is(err, store.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// canSeePatient denies patient accounts access to other patients' records.
func canSeePatient(c echo.Context, patientID int) error {
	ctx := c.Request().Context()
	if auth.HasAnyRole(auth.RolesFromContext(ctx), admin.RoleReceptionist, admin.RoleDoctor) {
		return nil
	}
	if auth.LinkedIDFromContext(ctx) == patientID {
		return nil
	}
	return echo.NewHTTPError(http.StatusForbidden, "patients may only view their own records")
}
