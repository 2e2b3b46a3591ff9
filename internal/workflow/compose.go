package workflow

import (
	"fmt"

	"peopleops/internal/validate"
)

// CreatePayload is the create request body. Every optional field serializes
// explicitly, null (or false) when unset, and the phone carries the dial
// code prefix.
type CreatePayload struct {
	FirstName         string  `json:"firstName"`
	MiddleName        *string `json:"middleName"`
	LastName          string  `json:"lastName"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Country           string  `json:"country"`
	Role              string  `json:"role"`
	Status            string  `json:"status"`
	DOB               *string `json:"dob"`
	Gender            *string `json:"gender"`
	Address           *string `json:"address"`
	Department        *string `json:"department"`
	Designation       *string `json:"designation"`
	JobTitle          *string `json:"jobTitle"`
	EmploymentType    *string `json:"employmentType"`
	WorkLocation      *string `json:"workLocation"`
	ReportTo          *string `json:"reportTo"`
	JoiningDate       *string `json:"joiningDate"`
	IsProbation       bool    `json:"isProbation"`
	ConfirmationDate  *string `json:"confirmationDate"`
	CTC               *string `json:"ctc"`
	Currency          *string `json:"currency"`
	AccountHolderName *string `json:"accountHolderName"`
	BankName          *string `json:"bankName"`
	City              *string `json:"city"`
	BranchName        *string `json:"branchName"`
	IFSCCode          *string `json:"ifscCode"`
	AccountNumber     *string `json:"accountNumber"`
	SwiftCode         *string `json:"swiftCode"`
	IBANNo            *string `json:"ibanNo"`
	QID               *string `json:"qid"`
	QIDExpirationDate *string `json:"qidExpirationDate"`
	PassportNumber    *string `json:"passportNumber"`
	PassportValidTill *string `json:"passportValidTill"`
}

// UpdatePayload is the update request body: unset fields are omitted
// entirely rather than sent as null, except booleans which always serialize.
type UpdatePayload struct {
	ID                string  `json:"-"`
	FirstName         string  `json:"firstName"`
	MiddleName        string  `json:"middleName"`
	LastName          string  `json:"lastName"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Country           string  `json:"country"`
	Role              string  `json:"role"`
	Status            string  `json:"status"`
	DOB               *string `json:"dob,omitempty"`
	Gender            *string `json:"gender,omitempty"`
	Address           *string `json:"address,omitempty"`
	Department        *string `json:"department,omitempty"`
	Designation       *string `json:"designation,omitempty"`
	JobTitle          *string `json:"jobTitle,omitempty"`
	EmploymentType    *string `json:"employmentType,omitempty"`
	WorkLocation      *string `json:"workLocation,omitempty"`
	ReportTo          *string `json:"reportTo,omitempty"`
	JoiningDate       *string `json:"joiningDate,omitempty"`
	IsProbation       bool    `json:"isProbation"`
	ConfirmationDate  *string `json:"confirmationDate,omitempty"`
	CTC               *string `json:"ctc,omitempty"`
	Currency          *string `json:"currency,omitempty"`
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
}

// Payload carries exactly one of the two backend request shapes.
type Payload struct {
	Create *CreatePayload
	Update *UpdatePayload
}

// Compose turns a fully validated draft into the payload the backend
// expects; presence of an ID selects update over create.
func Compose(d *Draft) (Payload, error) {
	if d.ID != "" {
		update, err := ComposeUpdate(d)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Update: &update}, nil
	}
	create, err := ComposeCreate(d)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Create: &create}, nil
}

func ComposeCreate(d *Draft) (CreatePayload, error) {
	phone, err := QualifiedPhone(d.Phone, d.Country)
	if err != nil {
		return CreatePayload{}, err
	}
	role := d.Role
	if role == "" {
		role = DefaultRole
	}
	status := d.Status
	if status == "" {
		status = StatusActive
	}

	payload := CreatePayload{
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		Email:             d.Email,
		Phone:             phone,
		Country:           d.Country,
		Role:              role,
		Status:            status,
		DOB:               d.DOB,
		Gender:            d.Gender,
		Address:           d.Address,
		Department:        d.Department,
		Designation:       d.Designation,
		JobTitle:          d.JobTitle,
		EmploymentType:    d.EmploymentType,
		WorkLocation:      d.WorkLocation,
		ReportTo:          d.ReportTo,
		JoiningDate:       d.JoiningDate,
		IsProbation:       d.IsProbation,
		ConfirmationDate:  d.ConfirmationDate,
		CTC:               d.CTC,
		Currency:          d.Currency,
		AccountHolderName: d.AccountHolderName,
		BankName:          d.BankName,
		City:              d.City,
		BranchName:        d.BranchName,
		IFSCCode:          d.IFSCCode,
		AccountNumber:     d.AccountNumber,
		SwiftCode:         d.SwiftCode,
		IBANNo:            d.IBANNo,
		QID:               d.QID,
		QIDExpirationDate: d.QIDExpirationDate,
		PassportNumber:    d.PassportNumber,
		PassportValidTill: d.PassportValidTill,
	}
	if d.MiddleName != "" {
		payload.MiddleName = strPtr(d.MiddleName)
	}
	return payload, nil
}

func ComposeUpdate(d *Draft) (UpdatePayload, error) {
	phone, err := QualifiedPhone(d.Phone, d.Country)
	if err != nil {
		return UpdatePayload{}, err
	}
	return UpdatePayload{
		ID:                d.ID,
		FirstName:         d.FirstName,
		MiddleName:        d.MiddleName,
		LastName:          d.LastName,
		Email:             d.Email,
		Phone:             phone,
		Country:           d.Country,
		Role:              d.Role,
		Status:            d.Status,
		DOB:               d.DOB,
		Gender:            d.Gender,
		Address:           d.Address,
		Department:        d.Department,
		Designation:       d.Designation,
		JobTitle:          d.JobTitle,
		EmploymentType:    d.EmploymentType,
		WorkLocation:      d.WorkLocation,
		ReportTo:          d.ReportTo,
		JoiningDate:       d.JoiningDate,
		IsProbation:       d.IsProbation,
		ConfirmationDate:  d.ConfirmationDate,
		CTC:               d.CTC,
		Currency:          d.Currency,
		AccountHolderName: d.AccountHolderName,
		BankName:          d.BankName,
		City:              d.City,
		BranchName:        d.BranchName,
		IFSCCode:          d.IFSCCode,
		AccountNumber:     d.AccountNumber,
		SwiftCode:         d.SwiftCode,
		IBANNo:            d.IBANNo,
		QID:               d.QID,
		QIDExpirationDate: d.QIDExpirationDate,
		PassportNumber:    d.PassportNumber,
		PassportValidTill: d.PassportValidTill,
	}, nil
}

// QualifiedPhone prefixes the country dial code to the digits-only local
// number, e.g. ("9876543210", "IN") -> "+919876543210".
func QualifiedPhone(phone, countryCode string) (string, error) {
	country, found := validate.CountryByCode(countryCode)
	if !found {
		return "", fmt.Errorf("unsupported country %q", countryCode)
	}
	return country.DialCode + validate.Digits(phone), nil
}
