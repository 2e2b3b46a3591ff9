// Package hrapi is the HTTP client for the employee service. It satisfies
// the directory.Client and workflow.ExistenceProber contracts so the form
// workflow and list orchestrator can run against a live backend.
package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"peopleops/internal/api"
	"peopleops/internal/directory"
	"peopleops/internal/dropdown"
	"peopleops/internal/employee"
	"peopleops/internal/profile"
	"peopleops/internal/workflow"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope api.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: "request failed"}
		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Login authenticates and stores the bearer token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

type listPage struct {
	Employees []directory.EmployeeSummary `json:"employees"`
	Total     int                         `json:"total"`
	Page      int                         `json:"page"`
	PageSize  int                         `json:"pageSize"`
}

// ListEmployees pages through the directory and returns the full list.
func (c *Client) ListEmployees(ctx context.Context) ([]directory.EmployeeSummary, error) {
	var all []directory.EmployeeSummary
	for page := 1; ; page++ {
		var out listPage
		path := fmt.Sprintf("/api/v1/employees?page=%d&pageSize=100", page)
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}
		all = append(all, out.Employees...)
		if len(all) >= out.Total || len(out.Employees) == 0 {
			return all, nil
		}
	}
}

func (c *Client) SearchEmployees(ctx context.Context, term string, page int) ([]directory.EmployeeSummary, int, error) {
	var out listPage
	path := fmt.Sprintf("/api/v1/employees?search=%s&page=%d", url.QueryEscape(term), page)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Employees, out.Total, nil
}

func (c *Client) CreateEmployee(ctx context.Context, payload workflow.CreatePayload) (directory.EmployeeSummary, error) {
	var out directory.EmployeeSummary
	err := c.do(ctx, http.MethodPost, "/api/v1/employees", payload, &out)
	return out, err
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, payload workflow.UpdatePayload) error {
	return c.do(ctx, http.MethodPut, "/api/v1/employees/"+url.PathEscape(id), payload, nil)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/employees/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UpdateEmployeeStatus(ctx context.Context, id string, change directory.StatusChange) error {
	return c.do(ctx, http.MethodPut, "/api/v1/employees/"+url.PathEscape(id)+"/status", change, nil)
}

// CheckExistence asks the backend whether the email or phone is already
// registered to another record.
func (c *Client) CheckExistence(ctx context.Context, req workflow.ExistenceRequest) (workflow.ExistenceResult, error) {
	var out employee.ExistenceReply
	if err := c.do(ctx, http.MethodPost, "/api/v1/employees/check-existence", req, &out); err != nil {
		return workflow.ExistenceResult{}, err
	}
	return workflow.ExistenceResult{
		EmailExists: out.Email.Exists,
		PhoneExists: out.Phone.Exists,
	}, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	var out employee.Employee
	err := c.do(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ListManagers(ctx context.Context) ([]employee.Manager, error) {
	var out []employee.Manager
	err := c.do(ctx, http.MethodGet, "/api/v1/employees/managers", nil, &out)
	return out, err
}

func (c *Client) ReportingManager(ctx context.Context, id string) (employee.Manager, error) {
	var out employee.Manager
	err := c.do(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(id)+"/reporting-manager", nil, &out)
	return out, err
}

func (c *Client) Subordinates(ctx context.Context, id string) ([]employee.Manager, error) {
	var out []employee.Manager
	err := c.do(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(id)+"/subordinates", nil, &out)
	return out, err
}

func (c *Client) DropdownValues(ctx context.Context, typeID int) (dropdown.TypeValues, error) {
	var out dropdown.TypeValues
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/dropdowns/types/%d", typeID), nil, &out)
	return out, err
}

func (c *Client) CreateDropdownValue(ctx context.Context, typeID int, valueName string) (dropdown.Value, error) {
	var out dropdown.Value
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/dropdowns/types/%d", typeID), map[string]string{
		"valueName": valueName,
	}, &out)
	return out, err
}

func (c *Client) PersonalInfo(ctx context.Context, id string) (profile.PersonalInfo, error) {
	var out profile.PersonalInfo
	err := c.do(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(id)+"/personal-info", nil, &out)
	return out, err
}

func (c *Client) UpdatePersonalInfo(ctx context.Context, id string, info profile.PersonalInfo) error {
	return c.do(ctx, http.MethodPut, "/api/v1/employees/"+url.PathEscape(id)+"/personal-info", info, nil)
}

func (c *Client) BankInfo(ctx context.Context, id string) (profile.BankInfo, error) {
	var out profile.BankInfo
	err := c.do(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(id)+"/bank-info", nil, &out)
	return out, err
}

func (c *Client) UpdateBankInfo(ctx context.Context, id string, info profile.BankInfo) error {
	return c.do(ctx, http.MethodPut, "/api/v1/employees/"+url.PathEscape(id)+"/bank-info", info, nil)
}

func (c *Client) Compensation(ctx context.Context, id string) (profile.Compensation, error) {
	var out profile.Compensation
	err := c.do(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(id)+"/ctc", nil, &out)
	return out, err
}

func (c *Client) UpdateCompensation(ctx context.Context, id string, comp profile.Compensation) error {
	return c.do(ctx, http.MethodPut, "/api/v1/employees/"+url.PathEscape(id)+"/ctc", comp, nil)
}

// ProfilePDF downloads the rendered profile sheet for one employee.
func (c *Client) ProfilePDF(ctx context.Context, id string) ([]byte, error) {
	return c.download(ctx, "/api/v1/employees/"+url.PathEscape(id)+"/profile.pdf")
}

// DirectoryXLSX downloads the directory export, optionally filtered by a
// search term.
func (c *Client) DirectoryXLSX(ctx context.Context, search string) ([]byte, error) {
	path := "/api/v1/reports/employees.xlsx"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	return c.download(ctx, path)
}

// download fetches a binary endpoint; failures still arrive as JSON
// envelopes and are surfaced as APIError.
func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: "request failed"}
		var envelope api.Envelope
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil && envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return nil, apiErr
	}
	return io.ReadAll(resp.Body)
}
