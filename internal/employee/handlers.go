package employee

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"peopleops/internal/api"
	"peopleops/internal/auth"
	"peopleops/internal/middleware"
	"peopleops/internal/validate"
	"peopleops/internal/workflow"
)

const DefaultPageSize = 10

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/managers", h.handleListManagers)
		r.Post("/check-existence", h.handleCheckExistence)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Get("/reporting-manager", h.handleReportingManager)
			r.Get("/subordinates", h.handleSubordinates)
			r.With(middleware.RequireRole(auth.RoleHR)).Put("/", h.handleUpdate)
			r.With(middleware.RequireRole(auth.RoleHR)).Delete("/", h.handleDelete)
			r.With(middleware.RequireRole(auth.RoleHR)).Put("/status", h.handleUpdateStatus)
		})
	})
}

func requireUser(w http.ResponseWriter, r *http.Request) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
	}
	return user, ok
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := requireUser(w, r); !ok {
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("search"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = DefaultPageSize
	}

	summaries, total, err := h.Store.Search(r.Context(), term, pageSize, (page-1)*pageSize)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", requestID)
		return
	}
	api.Success(w, map[string]any{
		"employees": summaries,
		"total":     total,
		"page":      page,
		"pageSize":  pageSize,
	}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := requireUser(w, r); !ok {
		return
	}

	emp, err := h.Store.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func validatePhone(phone string) validate.Result {
	if phone == "" {
		return validate.Result{Message: "Phone number is required"}
	}
	if !strings.HasPrefix(phone, "+") {
		return validate.Result{Message: "Phone number must include a dial code"}
	}
	digits := validate.Digits(phone)
	if len(digits) < 7 || len(digits) > 15 {
		return validate.Result{Message: "Phone number must be 7 to 15 digits"}
	}
	return validate.Result{Valid: true}
}

func validateIdentity(firstName, lastName, email, phone, country string) map[string]string {
	problems := map[string]string{}
	if res := validate.Name("First name", firstName); !res.Valid {
		problems["firstName"] = res.Message
	}
	if res := validate.Name("Last name", lastName); !res.Valid {
		problems["lastName"] = res.Message
	}
	if res := validate.Email(email); !res.Valid {
		problems["email"] = res.Message
	}
	if res := validatePhone(phone); !res.Valid {
		problems["phone"] = res.Message
	}
	if _, found := validate.CountryByCode(country); !found {
		problems["country"] = "Country is required"
	}
	return problems
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload workflow.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}

	problems := validateIdentity(payload.FirstName, payload.LastName, payload.Email, payload.Phone, payload.Country)
	if len(problems) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "employee payload is invalid", problems, requestID)
		return
	}

	reply, err := h.Store.CheckExistence(r.Context(), ExistenceQuery{Email: payload.Email, Phone: payload.Phone})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "existence_check_failed", "failed to check uniqueness", requestID)
		return
	}
	if reply.Email.Exists || reply.Phone.Exists {
		details := map[string]string{}
		if reply.Email.Exists {
			details["email"] = "This email is already registered"
		}
		if reply.Phone.Exists {
			details["phone"] = "This phone number is already registered"
		}
		api.FailWithDetails(w, http.StatusConflict, "duplicate", "employee already exists", details, requestID)
		return
	}

	role := payload.Role
	if role == "" {
		role = workflow.DefaultRole
	}
	status := payload.Status
	if status == "" {
		status = StatusActive
	}

	emp, err := h.Store.Create(r.Context(), CreateInput{
		FirstName:         payload.FirstName,
		MiddleName:        payload.MiddleName,
		LastName:          payload.LastName,
		Email:             payload.Email,
		Phone:             payload.Phone,
		Country:           payload.Country,
		Role:              role,
		Status:            status,
		DOB:               payload.DOB,
		Gender:            payload.Gender,
		Address:           payload.Address,
		Department:        payload.Department,
		Designation:       payload.Designation,
		JobTitle:          payload.JobTitle,
		EmploymentType:    payload.EmploymentType,
		WorkLocation:      payload.WorkLocation,
		ReportTo:          payload.ReportTo,
		JoiningDate:       payload.JoiningDate,
		IsProbation:       payload.IsProbation,
		ConfirmationDate:  payload.ConfirmationDate,
		CTC:               payload.CTC,
		Currency:          payload.Currency,
		AccountHolderName: payload.AccountHolderName,
		BankName:          payload.BankName,
		City:              payload.City,
		BranchName:        payload.BranchName,
		IFSCCode:          payload.IFSCCode,
		AccountNumber:     payload.AccountNumber,
		SwiftCode:         payload.SwiftCode,
		IBANNo:            payload.IBANNo,
		QID:               payload.QID,
		QIDExpirationDate: payload.QIDExpirationDate,
		PassportNumber:    payload.PassportNumber,
		PassportValidTill: payload.PassportValidTill,
	})
	if err != nil {
		if isUniqueViolation(err) {
			api.Fail(w, http.StatusConflict, "duplicate", "employee already exists", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "employee_create_failed", err.Error(), requestID)
		return
	}
	api.Created(w, emp, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload workflow.UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}

	problems := validateIdentity(payload.FirstName, payload.LastName, payload.Email, payload.Phone, payload.Country)
	if len(problems) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "employee payload is invalid", problems, requestID)
		return
	}

	reply, err := h.Store.CheckExistence(r.Context(), ExistenceQuery{Email: payload.Email, Phone: payload.Phone, ExcludeID: employeeID})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "existence_check_failed", "failed to check uniqueness", requestID)
		return
	}
	if reply.Email.Exists || reply.Phone.Exists {
		api.Fail(w, http.StatusConflict, "duplicate", "email or phone already registered", requestID)
		return
	}

	emp, err := h.Store.Update(r.Context(), employeeID, UpdateInput{
		FirstName:         payload.FirstName,
		MiddleName:        payload.MiddleName,
		LastName:          payload.LastName,
		Email:             payload.Email,
		Phone:             payload.Phone,
		Country:           payload.Country,
		Role:              payload.Role,
		Status:            payload.Status,
		DOB:               payload.DOB,
		Gender:            payload.Gender,
		Address:           payload.Address,
		Department:        payload.Department,
		Designation:       payload.Designation,
		JobTitle:          payload.JobTitle,
		EmploymentType:    payload.EmploymentType,
		WorkLocation:      payload.WorkLocation,
		ReportTo:          payload.ReportTo,
		JoiningDate:       payload.JoiningDate,
		IsProbation:       payload.IsProbation,
		ConfirmationDate:  payload.ConfirmationDate,
		CTC:               payload.CTC,
		Currency:          payload.Currency,
		AccountHolderName: payload.AccountHolderName,
		BankName:          payload.BankName,
		City:              payload.City,
		BranchName:        payload.BranchName,
		IFSCCode:          payload.IFSCCode,
		AccountNumber:     payload.AccountNumber,
		SwiftCode:         payload.SwiftCode,
		IBANNo:            payload.IBANNo,
		QID:               payload.QID,
		QIDExpirationDate: payload.QIDExpirationDate,
		PassportNumber:    payload.PassportNumber,
		PassportValidTill: payload.PassportValidTill,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "employee_update_failed", err.Error(), requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "employeeID")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", requestID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestID)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var req StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}

	switch req.Status {
	case StatusInactive:
	case StatusPendingInactive:
		parsed, err := validate.ParseDate(req.EffectiveDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_failed", "effectiveDate must be a valid date", requestID)
			return
		}
		req.EffectiveDate = parsed.Format("2006-01-02")
	default:
		api.Fail(w, http.StatusBadRequest, "validation_failed", "status must be INACTIVE or PENDING_INACTIVE", requestID)
		return
	}

	if err := h.Store.UpdateStatus(r.Context(), employeeID, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "status_update_failed", "failed to update employee status", requestID)
		return
	}
	api.Success(w, map[string]string{"status": req.Status}, requestID)
}

func (h *Handler) handleCheckExistence(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var q ExistenceQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}
	if q.Email == "" && q.Phone == "" {
		api.Fail(w, http.StatusBadRequest, "validation_failed", "email or phone is required", requestID)
		return
	}

	reply, err := h.Store.CheckExistence(r.Context(), q)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "existence_check_failed", "failed to check uniqueness", requestID)
		return
	}
	api.Success(w, reply, requestID)
}

func (h *Handler) handleListManagers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := requireUser(w, r); !ok {
		return
	}

	managers, err := h.Store.ListManagers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "manager_list_failed", "failed to list managers", requestID)
		return
	}
	api.Success(w, managers, requestID)
}

func (h *Handler) handleReportingManager(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := requireUser(w, r); !ok {
		return
	}

	mgr, err := h.Store.ReportingManager(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "no reporting manager assigned", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "manager_lookup_failed", "failed to look up reporting manager", requestID)
		return
	}
	api.Success(w, mgr, requestID)
}

func (h *Handler) handleSubordinates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := requireUser(w, r); !ok {
		return
	}

	subs, err := h.Store.Subordinates(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "subordinate_list_failed", "failed to list subordinates", requestID)
		return
	}
	api.Success(w, subs, requestID)
}
