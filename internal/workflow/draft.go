// Package workflow implements the employee form workflow: the in-progress
// draft record, tab-scoped validation, the debounced uniqueness checker and
// the payload composer. It owns no network calls beyond the injected
// existence prober and save callback.
package workflow

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	WorkLocationOnSite = "On-site"

	DefaultRole = "user"
)

var (
	Genders    = []string{"male", "female", "other"}
	Roles      = []string{"admin", "hr", "manager", "user"}
	Currencies = []string{"AED", "AUD", "BHD", "CAD", "EUR", "GBP", "INR", "KWD", "OMR", "QAR", "SAR", "SGD", "USD"}
)

// Draft is the employee record being created or edited. Mandatory identity
// fields are plain strings; everything optional is a pointer so the update
// composer can tell "unset" from "cleared".
type Draft struct {
	ID string

	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Phone      string
	Country    string
	Role       string
	Status     string

	DOB     *string
	Gender  *string
	Address *string

	Department     *string
	Designation    *string
	JobTitle       *string
	EmploymentType *string
	WorkLocation   *string
	ReportTo       *string
	JoiningDate    *string

	IsProbation      bool
	ConfirmationDate *string

	CTC      *string
	Currency *string

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

// OnSite reports whether the draft's work location switches the bank and
// document requirements to the on-site set (SWIFT/IBAN, QID).
func (d *Draft) OnSite() bool {
	return d.WorkLocation != nil && *d.WorkLocation == WorkLocationOnSite
}

// RequiresConfirmationDate is true while the employee is on probation.
func (d *Draft) RequiresConfirmationDate() bool {
	return d.IsProbation
}

// RequiresQID is true for on-site employees.
func (d *Draft) RequiresQID() bool {
	return d.OnSite()
}

func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	clone := *d
	for _, field := range []**string{
		&clone.DOB, &clone.Gender, &clone.Address,
		&clone.Department, &clone.Designation, &clone.JobTitle,
		&clone.EmploymentType, &clone.WorkLocation, &clone.ReportTo,
		&clone.JoiningDate, &clone.ConfirmationDate,
		&clone.CTC, &clone.Currency,
		&clone.AccountHolderName, &clone.BankName, &clone.City, &clone.BranchName,
		&clone.IFSCCode, &clone.AccountNumber, &clone.SwiftCode, &clone.IBANNo,
		&clone.QID, &clone.QIDExpirationDate, &clone.PassportNumber, &clone.PassportValidTill,
	} {
		if *field != nil {
			value := **field
			*field = &value
		}
	}
	return &clone
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(value string) *string {
	return &value
}
