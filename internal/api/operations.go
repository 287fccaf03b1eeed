package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shms/shms/internal/domain/admin"
	"github.com/shms/shms/internal/domain/billing"
	"github.com/shms/shms/internal/domain/department"
	"github.com/shms/shms/pkg/pagination"
)

// -- Appointments --

type scheduleRequest struct {
	PatientID int    `json:"patient_id"`
	DoctorID  int    `json:"doctor_id"`
	DateTime  string `json:"datetime"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

func (h *Handler) ScheduleAppointment(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := h.store.ScheduleAppointment(req.PatientID, req.DoctorID, req.DateTime, req.Type, req.Reason)
	if err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	a, _ := h.store.GetAppointment(id)
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	a, ok := h.store.GetAppointment(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	return c.JSON(http.StatusOK, pagination.Page(h.store.ListAppointments(), pagination.FromContext(c)))
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	if !h.store.CancelAppointment(id) {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if err := h.saved(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Billing --

// billView adds the computed amounts to a bill.
type billView struct {
	billing.Bill
	Base  float64 `json:"base"`
	Total float64 `json:"total"`
}

func viewOf(b billing.Bill) billView {
	return billView{Bill: b, Base: b.Base(), Total: b.Total()}
}

func billViews(bills []billing.Bill) []billView {
	out := make([]billView, len(bills))
	for i, b := range bills {
		out[i] = viewOf(b)
	}
	return out
}

type createBillRequest struct {
	PatientID       int     `json:"patient_id"`
	Insured         bool    `json:"insured"`
	CoveragePercent float64 `json:"coverage_percent"`
}

func (h *Handler) CreateBill(c echo.Context) error {
	var req createBillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := h.store.CreateBill(req.PatientID, req.Insured, req.CoveragePercent)
	if err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	b, _ := h.store.GetBill(id)
	return c.JSON(http.StatusCreated, viewOf(b))
}

type billItemRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (h *Handler) AddBillItem(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req billItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.AddBillItem(id, req.Description, req.Amount); err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	b, _ := h.store.GetBill(id)
	return c.JSON(http.StatusCreated, viewOf(b))
}

func (h *Handler) GetBill(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	b, ok := h.store.GetBill(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "bill not found")
	}
	return c.JSON(http.StatusOK, viewOf(b))
}

func (h *Handler) ListBills(c echo.Context) error {
	return c.JSON(http.StatusOK, pagination.Page(billViews(h.store.ListBills()), pagination.FromContext(c)))
}

// -- Pharmacy --

type medicineRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Expiry   string `json:"expiry"`
}

func (h *Handler) AddMedicine(c echo.Context) error {
	var req medicineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.AddMedicine(req.Name, req.Quantity, req.Expiry); err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.store.ListMedicines())
}

type issueRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) IssueMedicine(c echo.Context) error {
	var req issueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.IssueMedicine(c.Param("name"), req.Quantity); err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	return c.JSON(http.StatusOK, pagination.Page(h.store.ListMedicines(), pagination.FromContext(c)))
}

// LowStock lists medicines below ?threshold=, or the configured default.
func (h *Handler) LowStock(c echo.Context) error {
	threshold := h.lowStock
	if err := echo.QueryParamsBinder(c).Int("threshold", &threshold).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid threshold")
	}
	return c.JSON(http.StatusOK, h.store.LowStock(threshold))
}

// -- Department services --

type serviceRequest struct {
	PatientID int    `json:"patient_id"`
	Note      string `json:"note"`
}

func (h *Handler) PerformService(c echo.Context) error {
	svc, err := department.Parse(c.Param("service"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	var req serviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.store.PerformService(svc, req.PatientID, req.Note)
	if err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"service":    svc.Name(),
		"patient_id": req.PatientID,
		"entry":      entry,
	})
}

// -- Administration --

type userRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password"`
	LinkedID int    `json:"linked_id"`
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}
	if !admin.ValidRole(req.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role "+req.Role)
	}
	u := admin.User{Username: req.Username, Role: req.Role, Password: req.Password, LinkedID: req.LinkedID}
	if err := h.store.AddUser(u); err != nil {
		return storeError(err)
	}
	if err := h.saved(c); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, pagination.Page(h.store.ListUsers(), pagination.FromContext(c)))
}

func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Stats())
}
