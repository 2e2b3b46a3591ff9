package employee

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"peopleops/internal/validate"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var employeeColumns = []string{
	"id",
	"first_name",
	"COALESCE(middle_name, '')",
	"last_name",
	"email",
	"phone",
	"country",
	"role_name",
	"status",
	"to_char(dob, 'YYYY-MM-DD')",
	"gender",
	"address",
	"department",
	"designation",
	"job_title",
	"employment_type",
	"work_location",
	"report_to::text",
	"to_char(joining_date, 'YYYY-MM-DD')",
	"is_probation",
	"to_char(confirmation_date, 'YYYY-MM-DD')",
	"ctc::text",
	"currency",
	"account_holder_name",
	"bank_name",
	"city",
	"branch_name",
	"ifsc_code",
	"account_number",
	"swift_code",
	"iban_no",
	"qid",
	"to_char(qid_expiration_date, 'YYYY-MM-DD')",
	"passport_number",
	"to_char(passport_valid_till, 'YYYY-MM-DD')",
	"pending_status",
	"status_reason",
	"status_remarks",
	"to_char(status_effective_date, 'YYYY-MM-DD')",
	"created_at",
	"updated_at",
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.MiddleName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.Country, &emp.Role, &emp.Status,
		&emp.DOB, &emp.Gender, &emp.Address,
		&emp.Department, &emp.Designation, &emp.JobTitle, &emp.EmploymentType,
		&emp.WorkLocation, &emp.ReportTo, &emp.JoiningDate,
		&emp.IsProbation, &emp.ConfirmationDate,
		&emp.CTC, &emp.Currency,
		&emp.AccountHolderName, &emp.BankName, &emp.City, &emp.BranchName,
		&emp.IFSCCode, &emp.AccountNumber, &emp.SwiftCode, &emp.IBANNo,
		&emp.QID, &emp.QIDExpirationDate, &emp.PassportNumber, &emp.PassportValidTill,
		&emp.PendingStatus, &emp.StatusReason, &emp.StatusRemarks, &emp.StatusEffectiveDate,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Employee, error) {
	query, args, err := psql.Select(employeeColumns...).
		From("employees").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(s.DB.QueryRow(ctx, query, args...))
}

func searchFilter(term string) sq.Sqlizer {
	pattern := "%" + term + "%"
	return sq.Or{
		sq.ILike{"first_name": pattern},
		sq.ILike{"middle_name": pattern},
		sq.ILike{"last_name": pattern},
		sq.ILike{"email": pattern},
		sq.ILike{"department": pattern},
		sq.ILike{"designation": pattern},
	}
}

// Search returns one page of the directory plus the total match count.
func (s *Store) Search(ctx context.Context, term string, limit, offset int) ([]Summary, int, error) {
	builder := psql.Select(
		"id", "first_name", "COALESCE(middle_name, '')", "last_name",
		"email", "phone", "COALESCE(department, '')", "COALESCE(designation, '')",
		"status", "COALESCE(to_char(joining_date, 'YYYY-MM-DD'), '')",
	).From("employees").OrderBy("first_name", "last_name")
	countBuilder := psql.Select("COUNT(1)").From("employees")
	if term != "" {
		filter := searchFilter(term)
		builder = builder.Where(filter)
		countBuilder = countBuilder.Where(filter)
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit)).Offset(uint64(offset))
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(
			&sum.ID, &sum.FirstName, &sum.MiddleName, &sum.LastName,
			&sum.Email, &sum.Phone, &sum.Department, &sum.Designation,
			&sum.Status, &sum.JoiningDate,
		); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, total, rows.Err()
}

func normalizeDate(value *string) (*string, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := validate.ParseDate(*value)
	if err != nil {
		return nil, err
	}
	day := parsed.Format("2006-01-02")
	return &day, nil
}

func normalizeCTC(value *string) (*string, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, fmt.Errorf("invalid ctc %q: %w", *value, err)
	}
	text := amount.String()
	return &text, nil
}

type writeFields struct {
	dob, joiningDate, confirmationDate *string
	qidExpiration, passportValidTill   *string
	ctc                                *string
}

func normalizeWriteFields(dob, joining, confirmation, qidExp, passport, ctc *string) (writeFields, error) {
	var out writeFields
	var err error
	if out.dob, err = normalizeDate(dob); err != nil {
		return out, fmt.Errorf("dob: %w", err)
	}
	if out.joiningDate, err = normalizeDate(joining); err != nil {
		return out, fmt.Errorf("joiningDate: %w", err)
	}
	if out.confirmationDate, err = normalizeDate(confirmation); err != nil {
		return out, fmt.Errorf("confirmationDate: %w", err)
	}
	if out.qidExpiration, err = normalizeDate(qidExp); err != nil {
		return out, fmt.Errorf("qidExpirationDate: %w", err)
	}
	if out.passportValidTill, err = normalizeDate(passport); err != nil {
		return out, fmt.Errorf("passportValidTill: %w", err)
	}
	if out.ctc, err = normalizeCTC(ctc); err != nil {
		return out, err
	}
	return out, nil
}

type CreateInput struct {
	FirstName         string
	MiddleName        *string
	LastName          string
	Email             string
	Phone             string
	Country           string
	Role              string
	Status            string
	DOB               *string
	Gender            *string
	Address           *string
	Department        *string
	Designation       *string
	JobTitle          *string
	EmploymentType    *string
	WorkLocation      *string
	ReportTo          *string
	JoiningDate       *string
	IsProbation       bool
	ConfirmationDate  *string
	CTC               *string
	Currency          *string
	AccountHolderName *string
	BankName          *string
	City              *string
	BranchName        *string
	IFSCCode          *string
	AccountNumber     *string
	SwiftCode         *string
	IBANNo            *string
	QID               *string
	QIDExpirationDate *string
	PassportNumber    *string
	PassportValidTill *string
}

func (s *Store) Create(ctx context.Context, in CreateInput) (*Employee, error) {
	dates, err := normalizeWriteFields(in.DOB, in.JoiningDate, in.ConfirmationDate, in.QIDExpirationDate, in.PassportValidTill, in.CTC)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Insert("employees").
		SetMap(map[string]any{
			"first_name":          in.FirstName,
			"middle_name":         in.MiddleName,
			"last_name":           in.LastName,
			"email":               in.Email,
			"phone":               in.Phone,
			"country":             in.Country,
			"role_name":           in.Role,
			"status":              in.Status,
			"dob":                 dates.dob,
			"gender":              in.Gender,
			"address":             in.Address,
			"department":          in.Department,
			"designation":         in.Designation,
			"job_title":           in.JobTitle,
			"employment_type":     in.EmploymentType,
			"work_location":       in.WorkLocation,
			"report_to":           in.ReportTo,
			"joining_date":        dates.joiningDate,
			"is_probation":        in.IsProbation,
			"confirmation_date":   dates.confirmationDate,
			"ctc":                 dates.ctc,
			"currency":            in.Currency,
			"account_holder_name": in.AccountHolderName,
			"bank_name":           in.BankName,
			"city":                in.City,
			"branch_name":         in.BranchName,
			"ifsc_code":           in.IFSCCode,
			"account_number":      in.AccountNumber,
			"swift_code":          in.SwiftCode,
			"iban_no":             in.IBANNo,
			"qid":                 in.QID,
			"qid_expiration_date": dates.qidExpiration,
			"passport_number":     in.PassportNumber,
			"passport_valid_till": dates.passportValidTill,
		}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var id string
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

type UpdateInput struct {
	FirstName         string
	MiddleName        string
	LastName          string
	Email             string
	Phone             string
	Country           string
	Role              string
	Status            string
	DOB               *string
	Gender            *string
	Address           *string
	Department        *string
	Designation       *string
	JobTitle          *string
	EmploymentType    *string
	WorkLocation      *string
	ReportTo          *string
	JoiningDate       *string
	IsProbation       bool
	ConfirmationDate  *string
	CTC               *string
	Currency          *string
	AccountHolderName *string
	BankName          *string
	City              *string
	BranchName        *string
	IFSCCode          *string
	AccountNumber     *string
	SwiftCode         *string
	IBANNo            *string
	QID               *string
	QIDExpirationDate *string
	PassportNumber    *string
	PassportValidTill *string
}

// Update writes the identity fields unconditionally and only the optional
// fields that were sent; omitted optionals keep their stored values.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Employee, error) {
	dates, err := normalizeWriteFields(in.DOB, in.JoiningDate, in.ConfirmationDate, in.QIDExpirationDate, in.PassportValidTill, in.CTC)
	if err != nil {
		return nil, err
	}

	set := map[string]any{
		"first_name":   in.FirstName,
		"middle_name":  in.MiddleName,
		"last_name":    in.LastName,
		"email":        in.Email,
		"phone":        in.Phone,
		"country":      in.Country,
		"role_name":    in.Role,
		"status":       in.Status,
		"is_probation": in.IsProbation,
		"updated_at":   sq.Expr("now()"),
	}
	optional := map[string]*string{
		"dob":                 dates.dob,
		"gender":              in.Gender,
		"address":             in.Address,
		"department":          in.Department,
		"designation":         in.Designation,
		"job_title":           in.JobTitle,
		"employment_type":     in.EmploymentType,
		"work_location":       in.WorkLocation,
		"report_to":           in.ReportTo,
		"joining_date":        dates.joiningDate,
		"confirmation_date":   dates.confirmationDate,
		"ctc":                 dates.ctc,
		"currency":            in.Currency,
		"account_holder_name": in.AccountHolderName,
		"bank_name":           in.BankName,
		"city":                in.City,
		"branch_name":         in.BranchName,
		"ifsc_code":           in.IFSCCode,
		"account_number":      in.AccountNumber,
		"swift_code":          in.SwiftCode,
		"iban_no":             in.IBANNo,
		"qid":                 in.QID,
		"qid_expiration_date": dates.qidExpiration,
		"passport_number":     in.PassportNumber,
		"passport_valid_till": dates.passportValidTill,
	}
	for column, value := range optional {
		if value != nil {
			set[column] = *value
		}
	}

	query, args, err := psql.Update("employees").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateStatus applies an immediate INACTIVE or records a scheduled
// PENDING_INACTIVE with its reason, remarks and effective date.
func (s *Store) UpdateStatus(ctx context.Context, id string, req StatusChangeRequest) error {
	var builder sq.UpdateBuilder
	switch req.Status {
	case StatusInactive:
		builder = psql.Update("employees").SetMap(map[string]any{
			"status":                StatusInactive,
			"pending_status":        nil,
			"status_reason":         emptyToNil(req.Reason),
			"status_remarks":        emptyToNil(req.Remarks),
			"status_effective_date": nil,
			"updated_at":            sq.Expr("now()"),
		})
	case StatusPendingInactive:
		builder = psql.Update("employees").SetMap(map[string]any{
			"pending_status":        StatusPendingInactive,
			"status_reason":         emptyToNil(req.Reason),
			"status_remarks":        emptyToNil(req.Remarks),
			"status_effective_date": req.EffectiveDate,
			"updated_at":            sq.Expr("now()"),
		})
	default:
		return fmt.Errorf("unsupported status transition %q", req.Status)
	}

	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ApplyDueStatusChanges flips every PENDING_INACTIVE employee whose
// effective date has arrived to INACTIVE. Returns the number applied.
func (s *Store) ApplyDueStatusChanges(ctx context.Context) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET status = $1,
        pending_status = NULL,
        status_effective_date = NULL,
        updated_at = now()
    WHERE pending_status = $2
      AND status_effective_date <= CURRENT_DATE
  `, StatusInactive, StatusPendingInactive)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) CheckExistence(ctx context.Context, q ExistenceQuery) (ExistenceReply, error) {
	var reply ExistenceReply
	if q.Email != "" {
		exists, err := s.fieldExists(ctx, "email", q.Email, q.ExcludeID)
		if err != nil {
			return reply, err
		}
		reply.Email.Exists = exists
	}
	if q.Phone != "" {
		exists, err := s.fieldExists(ctx, "phone", q.Phone, q.ExcludeID)
		if err != nil {
			return reply, err
		}
		reply.Phone.Exists = exists
	}
	return reply, nil
}

func (s *Store) fieldExists(ctx context.Context, column, value, excludeID string) (bool, error) {
	builder := psql.Select("COUNT(1)").
		From("employees").
		Where(sq.Eq{column: value})
	if excludeID != "" {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}
	var count int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListManagers returns the active employees eligible as a reporting manager.
func (s *Store) ListManagers(ctx context.Context) ([]Manager, error) {
	query, args, err := psql.Select("id", "first_name", "last_name", "email", "COALESCE(designation, '')").
		From("employees").
		Where(sq.Eq{"status": StatusActive}).
		Where(sq.Eq{"role_name": []string{"admin", "hr", "manager"}}).
		OrderBy("first_name", "last_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryManagers(ctx, query, args...)
}

func (s *Store) ReportingManager(ctx context.Context, employeeID string) (*Manager, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT m.id, m.first_name, m.last_name, m.email, COALESCE(m.designation, '')
    FROM employees e
    JOIN employees m ON e.report_to = m.id
    WHERE e.id = $1
  `, employeeID)
	var mgr Manager
	if err := row.Scan(&mgr.ID, &mgr.FirstName, &mgr.LastName, &mgr.Email, &mgr.Designation); err != nil {
		return nil, err
	}
	return &mgr, nil
}

func (s *Store) Subordinates(ctx context.Context, employeeID string) ([]Manager, error) {
	query, args, err := psql.Select("id", "first_name", "last_name", "email", "COALESCE(designation, '')").
		From("employees").
		Where(sq.Eq{"report_to": employeeID}).
		OrderBy("first_name", "last_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryManagers(ctx, query, args...)
}

func (s *Store) queryManagers(ctx context.Context, query string, args ...any) ([]Manager, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var managers []Manager
	for rows.Next() {
		var mgr Manager
		if err := rows.Scan(&mgr.ID, &mgr.FirstName, &mgr.LastName, &mgr.Email, &mgr.Designation); err != nil {
			return nil, err
		}
		managers = append(managers, mgr)
	}
	return managers, rows.Err()
}

func emptyToNil(value string) any {
	if value == "" {
		return nil
	}
	return value
}
