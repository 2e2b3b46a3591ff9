// Package employee is the server-side employee domain: persistence, search,
// uniqueness probes and the status lifecycle.
package employee

import "time"

const (
	StatusActive          = "active"
	StatusInactive        = "INACTIVE"
	StatusPendingInactive = "PENDING_INACTIVE"
)

type Employee struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	Role       string `json:"role"`
	Status     string `json:"status"`

	DOB     *string `json:"dob,omitempty"`
	Gender  *string `json:"gender,omitempty"`
	Address *string `json:"address,omitempty"`

	Department     *string `json:"department,omitempty"`
	Designation    *string `json:"designation,omitempty"`
	JobTitle       *string `json:"jobTitle,omitempty"`
	EmploymentType *string `json:"employmentType,omitempty"`
	WorkLocation   *string `json:"workLocation,omitempty"`
	ReportTo       *string `json:"reportTo,omitempty"`
	JoiningDate    *string `json:"joiningDate,omitempty"`

	IsProbation      bool    `json:"isProbation"`
	ConfirmationDate *string `json:"confirmationDate,omitempty"`

	CTC      *string `json:"ctc,omitempty"`
	Currency *string `json:"currency,omitempty"`

	AccountHolderName *string `json:"accountHolderName,omitempty"`
	BankName          *string `json:"bankName,omitempty"`
	City              *string `json:"city,omitempty"`
	BranchName        *string `json:"branchName,omitempty"`
	IFSCCode          *string `json:"ifscCode,omitempty"`
	AccountNumber     *string `json:"accountNumber,omitempty"`
	SwiftCode         *string `json:"swiftCode,omitempty"`
	IBANNo            *string `json:"ibanNo,omitempty"`

	QID               *string `json:"qid,omitempty"`
	QIDExpirationDate *string `json:"qidExpirationDate,omitempty"`
	PassportNumber    *string `json:"passportNumber,omitempty"`
	PassportValidTill *string `json:"passportValidTill,omitempty"`

	PendingStatus       *string `json:"pendingStatus,omitempty"`
	StatusReason        *string `json:"statusReason,omitempty"`
	StatusRemarks       *string `json:"statusRemarks,omitempty"`
	StatusEffectiveDate *string `json:"statusEffectiveDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the list-view projection served by the directory endpoints.
type Summary struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName,omitempty"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Status      string `json:"status"`
	JoiningDate string `json:"joiningDate,omitempty"`
}

// Manager is the reduced shape served by the manager lookup endpoints.
type Manager struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Designation string `json:"designation,omitempty"`
}

type ExistenceQuery struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	ExcludeID string `json:"excludeId,omitempty"`
}

// FieldExistence is the per-field half of the existence-probe reply.
type FieldExistence struct {
	Exists bool `json:"exists"`
}

type ExistenceReply struct {
	Email FieldExistence `json:"email"`
	Phone FieldExistence `json:"phone"`
}

type StatusChangeRequest struct {
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	Remarks       string `json:"remarks,omitempty"`
	EffectiveDate string `json:"effectiveDate,omitempty"`
}
