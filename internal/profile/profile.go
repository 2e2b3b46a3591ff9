// Package profile covers the per-employee profile sub-resources: personal
// info, bank details, compensation and uploaded documents.
package profile

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"peopleops/internal/validate"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PersonalInfo struct {
	DOB     *string `json:"dob"`
	Gender  *string `json:"gender"`
	Address *string `json:"address"`
}

type BankInfo struct {
	AccountHolderName *string `json:"accountHolderName"`
	BankName          *string `json:"bankName"`
	City              *string `json:"city"`
	BranchName        *string `json:"branchName"`
	IFSCCode          *string `json:"ifscCode"`
	AccountNumber     *string `json:"accountNumber"`
	SwiftCode         *string `json:"swiftCode"`
	IBANNo            *string `json:"ibanNo"`
}

type Compensation struct {
	CTC      string `json:"ctc"`
	Currency string `json:"currency"`
}

type Document struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	DocType     string    `json:"docType"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int       `json:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) employeeExists(ctx context.Context, employeeID string) error {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", employeeID).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// WorkLocation returns the stored work location so bank validation can pick
// the right rule set.
func (s *Store) WorkLocation(ctx context.Context, employeeID string) (string, error) {
	var location *string
	err := s.DB.QueryRow(ctx, "SELECT work_location FROM employees WHERE id = $1", employeeID).Scan(&location)
	if err != nil {
		return "", err
	}
	if location == nil {
		return "", nil
	}
	return *location, nil
}

func (s *Store) GetPersonalInfo(ctx context.Context, employeeID string) (PersonalInfo, error) {
	var info PersonalInfo
	err := s.DB.QueryRow(ctx, `
    SELECT to_char(dob, 'YYYY-MM-DD'), gender, address
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&info.DOB, &info.Gender, &info.Address)
	return info, err
}

func (s *Store) GetBankInfo(ctx context.Context, employeeID string) (BankInfo, error) {
	var info BankInfo
	err := s.DB.QueryRow(ctx, `
    SELECT account_holder_name, bank_name, city, branch_name,
           ifsc_code, account_number, swift_code, iban_no
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(
		&info.AccountHolderName, &info.BankName, &info.City, &info.BranchName,
		&info.IFSCCode, &info.AccountNumber, &info.SwiftCode, &info.IBANNo,
	)
	return info, err
}

func (s *Store) GetCompensation(ctx context.Context, employeeID string) (Compensation, error) {
	var ctc, currency *string
	err := s.DB.QueryRow(ctx, `
    SELECT ctc::text, currency
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&ctc, &currency)
	if err != nil {
		return Compensation{}, err
	}
	var comp Compensation
	if ctc != nil {
		comp.CTC = *ctc
	}
	if currency != nil {
		comp.Currency = *currency
	}
	return comp, nil
}

func (s *Store) updateColumns(ctx context.Context, employeeID string, set map[string]any) error {
	set["updated_at"] = sq.Expr("now()")
	query, args, err := psql.Update("employees").
		SetMap(set).
		Where(sq.Eq{"id": employeeID}).
		ToSql()
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

func (s *Store) UpdatePersonalInfo(ctx context.Context, employeeID string, info PersonalInfo) error {
	set := map[string]any{}
	if info.DOB != nil {
		day, err := normalizeDay(*info.DOB)
		if err != nil {
			return err
		}
		set["dob"] = day
	}
	if info.Gender != nil {
		set["gender"] = *info.Gender
	}
	if info.Address != nil {
		set["address"] = *info.Address
	}
	if len(set) == 0 {
		return s.employeeExists(ctx, employeeID)
	}
	return s.updateColumns(ctx, employeeID, set)
}

func (s *Store) UpdateBankInfo(ctx context.Context, employeeID string, info BankInfo) error {
	set := map[string]any{}
	for column, value := range map[string]*string{
		"account_holder_name": info.AccountHolderName,
		"bank_name":           info.BankName,
		"city":                info.City,
		"branch_name":         info.BranchName,
		"ifsc_code":           info.IFSCCode,
		"account_number":      info.AccountNumber,
		"swift_code":          info.SwiftCode,
		"iban_no":             info.IBANNo,
	} {
		if value != nil {
			set[column] = *value
		}
	}
	if len(set) == 0 {
		return s.employeeExists(ctx, employeeID)
	}
	return s.updateColumns(ctx, employeeID, set)
}

func (s *Store) UpdateCompensation(ctx context.Context, employeeID string, amount decimal.Decimal, currency string) error {
	return s.updateColumns(ctx, employeeID, map[string]any{
		"ctc":      amount.String(),
		"currency": currency,
	})
}

func (s *Store) SaveDocument(ctx context.Context, employeeID, docType, fileName, contentType string, data []byte) (Document, error) {
	var doc Document
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (employee_id, doc_type, file_name, content_type, data)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, employee_id, doc_type, file_name, content_type, octet_length(data), uploaded_at
  `, employeeID, docType, fileName, contentType, data).Scan(
		&doc.ID, &doc.EmployeeID, &doc.DocType, &doc.FileName, &doc.ContentType, &doc.SizeBytes, &doc.UploadedAt,
	)
	return doc, err
}

func (s *Store) ListDocuments(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, doc_type, file_name, content_type, octet_length(data), uploaded_at
    FROM documents
    WHERE employee_id = $1
    ORDER BY uploaded_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.EmployeeID, &doc.DocType, &doc.FileName, &doc.ContentType, &doc.SizeBytes, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) DocumentContent(ctx context.Context, employeeID, documentID string) (Document, []byte, error) {
	var doc Document
	var data []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, doc_type, file_name, content_type, octet_length(data), uploaded_at, data
    FROM documents
    WHERE employee_id = $1 AND id = $2
  `, employeeID, documentID).Scan(
		&doc.ID, &doc.EmployeeID, &doc.DocType, &doc.FileName, &doc.ContentType, &doc.SizeBytes, &doc.UploadedAt, &data,
	)
	return doc, data, err
}

func (s *Store) DeleteDocument(ctx context.Context, employeeID, documentID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM documents WHERE employee_id = $1 AND id = $2", employeeID, documentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func normalizeDay(value string) (string, error) {
	parsed, err := validate.ParseDate(value)
	if err != nil {
		return "", err
	}
	return parsed.Format("2006-01-02"), nil
}
