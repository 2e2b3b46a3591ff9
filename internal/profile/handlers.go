package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"peopleops/internal/api"
	"peopleops/internal/auth"
	"peopleops/internal/middleware"
	"peopleops/internal/validate"
	"peopleops/internal/workflow"
)

type Handler struct {
	Store            *Store
	MaxDocumentBytes int64
}

func NewHandler(store *Store, maxDocumentBytes int64) *Handler {
	return &Handler{Store: store, MaxDocumentBytes: maxDocumentBytes}
}

// RegisterRoutes registers the JSON sub-resources as flat patterns so the
// employee subtree's own per-ID routes stay reachable; document routes are
// registered separately so the upload endpoint can carry its own body cap.
func (h *Handler) RegisterRoutes(r chi.Router) {
	hr := middleware.RequireRole(auth.RoleHR)
	r.Get("/employees/{employeeID}/personal-info", h.handleGetPersonalInfo)
	r.Get("/employees/{employeeID}/bank-info", h.handleGetBankInfo)
	r.Get("/employees/{employeeID}/ctc", h.handleGetCompensation)
	r.With(hr).Put("/employees/{employeeID}/personal-info", h.handleUpdatePersonalInfo)
	r.With(hr).Put("/employees/{employeeID}/bank-info", h.handleUpdateBankInfo)
	r.With(hr).Put("/employees/{employeeID}/ctc", h.handleUpdateCompensation)
}

func (h *Handler) RegisterDocumentRoutes(r chi.Router) {
	hr := middleware.RequireRole(auth.RoleHR)
	r.Get("/employees/{employeeID}/documents", h.handleListDocuments)
	r.With(hr).Post("/employees/{employeeID}/documents", h.handleUploadDocument)
	r.Get("/employees/{employeeID}/documents/{documentID}", h.handleDownloadDocument)
	r.With(hr).Delete("/employees/{employeeID}/documents/{documentID}", h.handleDeleteDocument)
}

func (h *Handler) handleGetPersonalInfo(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	info, err := h.Store.GetPersonalInfo(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	api.Success(w, info, requestID)
}

func (h *Handler) handleGetBankInfo(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	info, err := h.Store.GetBankInfo(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	api.Success(w, info, requestID)
}

func (h *Handler) handleGetCompensation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	comp, err := h.Store.GetCompensation(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	api.Success(w, comp, requestID)
}

func (h *Handler) handleUpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var info PersonalInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}

	problems := validatePersonalInfo(info)
	if len(problems) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "personal info is invalid", problems, requestID)
		return
	}

	if err := h.Store.UpdatePersonalInfo(r.Context(), employeeID, info); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "personal_info_update_failed", err.Error(), requestID)
		return
	}
	api.Success(w, map[string]bool{"updated": true}, requestID)
}

func validatePersonalInfo(info PersonalInfo) map[string]string {
	problems := map[string]string{}
	if info.DOB != nil && *info.DOB != "" {
		if res := validate.PastOrPresentDate("Date of birth", *info.DOB); !res.Valid {
			problems["dob"] = res.Message
		}
	}
	if info.Gender != nil && *info.Gender != "" {
		if res := validate.Enum("Gender", *info.Gender, workflow.Genders...); !res.Valid {
			problems["gender"] = res.Message
		}
	}
	return problems
}

// validateBankInfo applies the rule set for the employee's work location:
// IFSC and account number off-site, SWIFT and IBAN on-site. Fields outside
// the active set are accepted unvalidated so stale values can be cleared.
func validateBankInfo(info BankInfo, workLocation string) map[string]string {
	problems := map[string]string{}
	onSite := workLocation == workflow.WorkLocationOnSite
	if !onSite {
		if info.IFSCCode != nil && *info.IFSCCode != "" {
			if res := validate.IFSC(*info.IFSCCode); !res.Valid {
				problems["ifscCode"] = res.Message
			}
		}
		if info.AccountNumber != nil && *info.AccountNumber != "" {
			if res := validate.AccountNumber(*info.AccountNumber); !res.Valid {
				problems["accountNumber"] = res.Message
			}
		}
	} else {
		if info.SwiftCode != nil && *info.SwiftCode != "" {
			if res := validate.SWIFT(*info.SwiftCode); !res.Valid {
				problems["swiftCode"] = res.Message
			}
		}
		if info.IBANNo != nil && *info.IBANNo != "" {
			if res := validate.IBAN(*info.IBANNo); !res.Valid {
				problems["ibanNo"] = res.Message
			}
		}
	}
	return problems
}

func (h *Handler) handleUpdateBankInfo(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var info BankInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}

	workLocation, err := h.Store.WorkLocation(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "bank_info_update_failed", "failed to load employee", requestID)
		return
	}

	problems := validateBankInfo(info, workLocation)
	if len(problems) > 0 {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "bank info is invalid", problems, requestID)
		return
	}

	if err := h.Store.UpdateBankInfo(r.Context(), employeeID, info); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "bank_info_update_failed", err.Error(), requestID)
		return
	}
	api.Success(w, map[string]bool{"updated": true}, requestID)
}

func (h *Handler) handleUpdateCompensation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var comp Compensation
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "invalid request body", requestID)
		return
	}

	if res := validate.CTC(comp.CTC); !res.Valid || comp.CTC == "" {
		message := res.Message
		if comp.CTC == "" {
			message = "CTC is required"
		}
		api.Fail(w, http.StatusBadRequest, "validation_failed", message, requestID)
		return
	}
	if res := validate.Enum("Currency", comp.Currency, workflow.Currencies...); !res.Valid {
		api.Fail(w, http.StatusBadRequest, "validation_failed", res.Message, requestID)
		return
	}

	amount, err := decimal.NewFromString(comp.CTC)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_failed", "CTC must be a number", requestID)
		return
	}

	if err := h.Store.UpdateCompensation(r.Context(), employeeID, amount, strings.ToUpper(comp.Currency)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "ctc_update_failed", "failed to update compensation", requestID)
		return
	}
	api.Success(w, map[string]bool{"updated": true}, requestID)
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxDocumentBytes)
	if err := r.ParseMultipartForm(h.MaxDocumentBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "multipart form required", requestID)
		return
	}

	docType := strings.TrimSpace(r.FormValue("docType"))
	if docType == "" {
		api.Fail(w, http.StatusBadRequest, "validation_failed", "docType is required", requestID)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "validation_failed", "file is required", requestID)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "upload_failed", "failed to read file", requestID)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.Store.SaveDocument(r.Context(), employeeID, docType, header.Filename, contentType, data)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upload_failed", "failed to store document", requestID)
		return
	}
	api.Created(w, doc, requestID)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	docs, err := h.Store.ListDocuments(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_list_failed", "failed to list documents", requestID)
		return
	}
	api.Success(w, docs, requestID)
}

func (h *Handler) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	doc, data, err := h.Store.DocumentContent(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "documentID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", requestID)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	err := h.Store.DeleteDocument(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "documentID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Fail(w, http.StatusNotFound, "not_found", "document not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", requestID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestID)
}
