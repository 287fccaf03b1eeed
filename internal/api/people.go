package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shms/shms/internal/domain/identity"
	"github.com/shms/shms/pkg/pagination"
)

// -- Patients --

func (h *Handler) CreatePatient(c echo.Context) error {
	var p identity.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(p.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	id := h.store.AddPatient(p)
	if err := h.saved(c); err != nil {
		return err
	}
	created, _ := h.store.FindPatient(id)
	return c.JSON(http.StatusCreated, created)
}

// personResponse wraps a record found by its shared person id.
type personResponse struct {
	Kind    identity.Kind   `json:"kind"`
	ID      int             `json:"id"`
	Summary string          `json:"summary"`
	Record  identity.Record `json:"record"`
}

// GetPerson resolves an id to a patient, doctor or staff record.
func (h *Handler) GetPerson(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	r, ok := h.store.FindPerson(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "person not found")
	}
	return c.JSON(http.StatusOK, personResponse{Kind: r.Kind(), ID: r.PersonID(), Summary: r.Describe(), Record: r})
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := canSeePatient(c, id); err != nil {
		return err
	}
	p, ok := h.store.FindPatient(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

// ListPatients lists patients, filtered by ?name= substring when given.
func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	var patients []identity.Patient
	if name := c.QueryParam("name"); name != "" {
		patients = h.store.SearchPatientsByName(name)
	} else {
		patients = h.store.ListPatients()
	}
	return c.JSON(http.StatusOK, pagination.Page(patients, pg))
}

type historyRequest struct {
	Entry string `json:"entry"`
}

func (h *Handler) AddPatientHistory(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req historyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.AddPatientHistory(id, req.Entry); err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	p, _ := h.store.FindPatient(id)
	return c.JSON(http.StatusCreated, p)
}

type insuranceRequest struct {
	Insured  bool   `json:"insured"`
	Provider string `json:"provider"`
}

func (h *Handler) SetPatientInsurance(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req insuranceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.SetPatientInsurance(id, req.Insured, req.Provider); err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	p, _ := h.store.FindPatient(id)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatientAppointments(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := canSeePatient(c, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.Page(h.store.GetAppointmentsForPatient(id), pagination.FromContext(c)))
}

func (h *Handler) ListPatientBills(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if err := canSeePatient(c, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.Page(billViews(h.store.GetBillsForPatient(id)), pagination.FromContext(c)))
}

// -- Doctors --

func (h *Handler) CreateDoctor(c echo.Context) error {
	var d identity.Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(d.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	d.BookedSlots = nil
	id := h.store.AddDoctor(d)
	if err := h.saved(c); err != nil {
		return err
	}
	created, _ := h.store.FindDoctor(id)
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	d, ok := h.store.FindDoctor(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, d)
}

// ListDoctors lists doctors, filtered by ?specialization= substring when given.
func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	var doctors []identity.Doctor
	if spec := c.QueryParam("specialization"); spec != "" {
		doctors = h.store.SearchDoctorsBySpecialization(spec)
	} else {
		doctors = h.store.ListDoctors()
	}
	return c.JSON(http.StatusOK, pagination.Page(doctors, pg))
}

func (h *Handler) DoctorAvailability(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	dt := c.QueryParam("datetime")
	if dt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "datetime is required")
	}
	if _, ok := h.store.FindDoctor(id); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"doctor_id": id,
		"datetime":  dt,
		"available": h.store.IsDoctorAvailable(id, dt),
	})
}

func (h *Handler) ListDoctorAppointments(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.Page(h.store.GetAppointmentsForDoctor(id), pagination.FromContext(c)))
}

// -- Staff --

func (h *Handler) CreateStaff(c echo.Context) error {
	var st identity.Staff
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(st.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	id := h.store.AddStaff(st)
	if err := h.saved(c); err != nil {
		return err
	}
	created, _ := h.store.FindStaff(id)
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListStaff(c echo.Context) error {
	return c.JSON(http.StatusOK, pagination.Page(h.store.ListStaff(), pagination.FromContext(c)))
}
