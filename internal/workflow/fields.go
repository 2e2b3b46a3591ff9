package workflow

import (
	"strconv"

	"peopleops/internal/validate"
)

type Tab string

const (
	// Creation form tabs.
	TabMandatory Tab = "mandatory"
	TabOptional  Tab = "optional"

	// Profile dialog tabs.
	TabPersonal  Tab = "personal"
	TabWorkWeek  Tab = "work-week"
	TabBank      Tab = "bank"
	TabDocuments Tab = "documents"
	TabTeam      Tab = "team"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeProfile
)

func (m Mode) Tabs() []Tab {
	if m == ModeProfile {
		return []Tab{TabPersonal, TabWorkWeek, TabBank, TabDocuments, TabTeam}
	}
	return []Tab{TabMandatory, TabOptional}
}

type fieldSpec struct {
	name       string
	label      string
	createTab  Tab
	profileTab Tab
	unique     bool
	get        func(*Draft) string
	set        func(*Draft, string)
	validate   func(*Draft) validate.Result
}

func (fs fieldSpec) tab(mode Mode) Tab {
	if mode == ModeProfile {
		return fs.profileTab
	}
	return fs.createTab
}

func validDate(label, value string) validate.Result {
	if value == "" {
		return validate.Result{Valid: true}
	}
	if parsed, err := validate.ParseDate(value); err != nil || parsed.IsZero() {
		return validate.Result{Message: label + " must be a valid date in YYYY-MM-DD format"}
	}
	return validate.Result{Valid: true}
}

func mandatoryEnum(label, value string, allowed ...string) validate.Result {
	if res := validate.Required(label, value); !res.Valid {
		return res
	}
	return validate.Enum(label, value, allowed...)
}

func optStr(get func(*Draft) *string) func(*Draft) string {
	return func(d *Draft) string { return strValue(get(d)) }
}

func setOptStr(set func(*Draft, *string)) func(*Draft, string) {
	return func(d *Draft, value string) { set(d, strPtr(value)) }
}

// fieldRegistry binds every draft field to its tabs, accessors and
// synchronous validator. Registry order doubles as focus order on submit.
var fieldRegistry = []fieldSpec{
	{
		name: "firstName", label: "First name", createTab: TabMandatory, profileTab: TabPersonal,
		get: func(d *Draft) string { return d.FirstName },
		set: func(d *Draft, v string) { d.FirstName = v },
		validate: func(d *Draft) validate.Result { return validate.Name("First name", d.FirstName) },
	},
	{
		name: "middleName", label: "Middle name", createTab: TabMandatory, profileTab: TabPersonal,
		get: func(d *Draft) string { return d.MiddleName },
		set: func(d *Draft, v string) { d.MiddleName = v },
		validate: func(d *Draft) validate.Result { return validate.OptionalName("Middle name", d.MiddleName) },
	},
	{
		name: "lastName", label: "Last name", createTab: TabMandatory, profileTab: TabPersonal,
		get: func(d *Draft) string { return d.LastName },
		set: func(d *Draft, v string) { d.LastName = v },
		validate: func(d *Draft) validate.Result { return validate.Name("Last name", d.LastName) },
	},
	{
		name: "email", label: "Email", createTab: TabMandatory, profileTab: TabPersonal, unique: true,
		get: func(d *Draft) string { return d.Email },
		set: func(d *Draft, v string) { d.Email = v },
		validate: func(d *Draft) validate.Result { return validate.Email(d.Email) },
	},
	{
		name: "country", label: "Country", createTab: TabMandatory, profileTab: TabPersonal,
		get: func(d *Draft) string { return d.Country },
		set: func(d *Draft, v string) { d.Country = v },
		validate: func(d *Draft) validate.Result {
			if res := validate.Required("Country", d.Country); !res.Valid {
				return res
			}
			if _, found := validate.CountryByCode(d.Country); !found {
				return validate.Result{Message: "Country is not supported"}
			}
			return validate.Result{Valid: true}
		},
	},
	{
		name: "phone", label: "Phone number", createTab: TabMandatory, profileTab: TabPersonal, unique: true,
		get: func(d *Draft) string { return d.Phone },
		set: func(d *Draft, v string) { d.Phone = v },
		validate: func(d *Draft) validate.Result { return validate.Phone(d.Phone, d.Country) },
	},
	{
		name: "role", label: "Role", createTab: TabMandatory, profileTab: TabPersonal,
		get: func(d *Draft) string { return d.Role },
		set: func(d *Draft, v string) { d.Role = v },
		validate: func(d *Draft) validate.Result { return mandatoryEnum("Role", d.Role, Roles...) },
	},
	{
		name: "status", label: "Status", createTab: TabMandatory, profileTab: TabPersonal,
		get: func(d *Draft) string { return d.Status },
		set: func(d *Draft, v string) { d.Status = v },
		validate: func(d *Draft) validate.Result {
			return mandatoryEnum("Status", d.Status, StatusActive, StatusInactive)
		},
	},
	{
		name: "dob", label: "Date of birth", createTab: TabOptional, profileTab: TabPersonal,
		get: optStr(func(d *Draft) *string { return d.DOB }),
		set: setOptStr(func(d *Draft, v *string) { d.DOB = v }),
		validate: func(d *Draft) validate.Result {
			return validate.PastOrPresentDate("Date of birth", strValue(d.DOB))
		},
	},
	{
		name: "gender", label: "Gender", createTab: TabOptional, profileTab: TabPersonal,
		get: optStr(func(d *Draft) *string { return d.Gender }),
		set: setOptStr(func(d *Draft, v *string) { d.Gender = v }),
		validate: func(d *Draft) validate.Result {
			return validate.Enum("Gender", strValue(d.Gender), Genders...)
		},
	},
	{
		name: "address", label: "Address", createTab: TabOptional, profileTab: TabPersonal,
		get:  optStr(func(d *Draft) *string { return d.Address }),
		set:  setOptStr(func(d *Draft, v *string) { d.Address = v }),
	},
	{
		name: "department", label: "Department", createTab: TabOptional, profileTab: TabWorkWeek,
		get:  optStr(func(d *Draft) *string { return d.Department }),
		set:  setOptStr(func(d *Draft, v *string) { d.Department = v }),
	},
	{
		name: "designation", label: "Designation", createTab: TabOptional, profileTab: TabWorkWeek,
		get:  optStr(func(d *Draft) *string { return d.Designation }),
		set:  setOptStr(func(d *Draft, v *string) { d.Designation = v }),
	},
	{
		name: "jobTitle", label: "Job title", createTab: TabOptional, profileTab: TabWorkWeek,
		get:  optStr(func(d *Draft) *string { return d.JobTitle }),
		set:  setOptStr(func(d *Draft, v *string) { d.JobTitle = v }),
	},
	{
		name: "employmentType", label: "Employment type", createTab: TabOptional, profileTab: TabWorkWeek,
		get:  optStr(func(d *Draft) *string { return d.EmploymentType }),
		set:  setOptStr(func(d *Draft, v *string) { d.EmploymentType = v }),
	},
	{
		name: "workLocation", label: "Work location", createTab: TabOptional, profileTab: TabWorkWeek,
		get: optStr(func(d *Draft) *string { return d.WorkLocation }),
		set: setOptStr(func(d *Draft, v *string) { d.WorkLocation = v }),
		validate: func(d *Draft) validate.Result {
			return validate.Enum("Work location", strValue(d.WorkLocation), WorkLocationOnSite, "Remote", "Hybrid")
		},
	},
	{
		name: "reportTo", label: "Reports to", createTab: TabOptional, profileTab: TabTeam,
		get:  optStr(func(d *Draft) *string { return d.ReportTo }),
		set:  setOptStr(func(d *Draft, v *string) { d.ReportTo = v }),
	},
	{
		name: "joiningDate", label: "Joining date", createTab: TabOptional, profileTab: TabWorkWeek,
		get: optStr(func(d *Draft) *string { return d.JoiningDate }),
		set: setOptStr(func(d *Draft, v *string) { d.JoiningDate = v }),
		validate: func(d *Draft) validate.Result {
			return validDate("Joining date", strValue(d.JoiningDate))
		},
	},
	{
		name: "isProbation", label: "On probation", createTab: TabOptional, profileTab: TabWorkWeek,
		get: func(d *Draft) string { return strconv.FormatBool(d.IsProbation) },
		set: func(d *Draft, v string) {
			parsed, err := strconv.ParseBool(v)
			d.IsProbation = err == nil && parsed
		},
	},
	{
		name: "confirmationDate", label: "Confirmation date", createTab: TabOptional, profileTab: TabWorkWeek,
		get: optStr(func(d *Draft) *string { return d.ConfirmationDate }),
		set: setOptStr(func(d *Draft, v *string) { d.ConfirmationDate = v }),
		validate: func(d *Draft) validate.Result {
			value := strValue(d.ConfirmationDate)
			if d.RequiresConfirmationDate() && value == "" {
				return validate.Result{Message: "Confirmation date is required"}
			}
			return validate.DateWithinYears("Confirmation date", value, confirmationWindowYears)
		},
	},
	{
		name: "ctc", label: "CTC", createTab: TabOptional, profileTab: TabWorkWeek,
		get: optStr(func(d *Draft) *string { return d.CTC }),
		set: setOptStr(func(d *Draft, v *string) { d.CTC = v }),
		validate: func(d *Draft) validate.Result {
			return validate.CTC(strValue(d.CTC))
		},
	},
	{
		name: "currency", label: "Currency", createTab: TabOptional, profileTab: TabWorkWeek,
		get: optStr(func(d *Draft) *string { return d.Currency }),
		set: setOptStr(func(d *Draft, v *string) { d.Currency = v }),
		validate: func(d *Draft) validate.Result {
			return validate.Enum("Currency", strValue(d.Currency), Currencies...)
		},
	},
	{
		name: "accountHolderName", label: "Account holder name", createTab: TabOptional, profileTab: TabBank,
		get: optStr(func(d *Draft) *string { return d.AccountHolderName }),
		set: setOptStr(func(d *Draft, v *string) { d.AccountHolderName = v }),
		validate: func(d *Draft) validate.Result {
			return validate.OptionalName("Account holder name", strValue(d.AccountHolderName))
		},
	},
	{
		name: "bankName", label: "Bank name", createTab: TabOptional, profileTab: TabBank,
		get:  optStr(func(d *Draft) *string { return d.BankName }),
		set:  setOptStr(func(d *Draft, v *string) { d.BankName = v }),
	},
	{
		name: "city", label: "City", createTab: TabOptional, profileTab: TabBank,
		get:  optStr(func(d *Draft) *string { return d.City }),
		set:  setOptStr(func(d *Draft, v *string) { d.City = v }),
	},
	{
		name: "branchName", label: "Branch name", createTab: TabOptional, profileTab: TabBank,
		get:  optStr(func(d *Draft) *string { return d.BranchName }),
		set:  setOptStr(func(d *Draft, v *string) { d.BranchName = v }),
	},
	{
		// IFSC and account number pair with the non-on-site bank set; they are
		// not validated while the work location is On-site.
		name: "ifscCode", label: "IFSC code", createTab: TabOptional, profileTab: TabBank,
		get: optStr(func(d *Draft) *string { return d.IFSCCode }),
		set: setOptStr(func(d *Draft, v *string) { d.IFSCCode = v }),
		validate: func(d *Draft) validate.Result {
			if d.OnSite() {
				return validate.Result{Valid: true}
			}
			return validate.IFSC(strValue(d.IFSCCode))
		},
	},
	{
		name: "accountNumber", label: "Account number", createTab: TabOptional, profileTab: TabBank,
		get: optStr(func(d *Draft) *string { return d.AccountNumber }),
		set: setOptStr(func(d *Draft, v *string) { d.AccountNumber = v }),
		validate: func(d *Draft) validate.Result {
			if d.OnSite() {
				return validate.Result{Valid: true}
			}
			return validate.AccountNumber(strValue(d.AccountNumber))
		},
	},
	{
		name: "swiftCode", label: "SWIFT code", createTab: TabOptional, profileTab: TabBank,
		get: optStr(func(d *Draft) *string { return d.SwiftCode }),
		set: setOptStr(func(d *Draft, v *string) { d.SwiftCode = v }),
		validate: func(d *Draft) validate.Result {
			if !d.OnSite() {
				return validate.Result{Valid: true}
			}
			return validate.SWIFT(strValue(d.SwiftCode))
		},
	},
	{
		name: "ibanNo", label: "IBAN", createTab: TabOptional, profileTab: TabBank,
		get: optStr(func(d *Draft) *string { return d.IBANNo }),
		set: setOptStr(func(d *Draft, v *string) { d.IBANNo = v }),
		validate: func(d *Draft) validate.Result {
			if !d.OnSite() {
				return validate.Result{Valid: true}
			}
			return validate.IBAN(strValue(d.IBANNo))
		},
	},
	{
		name: "qid", label: "QID", createTab: TabOptional, profileTab: TabDocuments,
		get: optStr(func(d *Draft) *string { return d.QID }),
		set: setOptStr(func(d *Draft, v *string) { d.QID = v }),
		validate: func(d *Draft) validate.Result {
			value := strValue(d.QID)
			if d.RequiresQID() && value == "" {
				return validate.Result{Message: "QID is required"}
			}
			return validate.QID(value)
		},
	},
	{
		name: "qidExpirationDate", label: "QID expiration date", createTab: TabOptional, profileTab: TabDocuments,
		get: optStr(func(d *Draft) *string { return d.QIDExpirationDate }),
		set: setOptStr(func(d *Draft, v *string) { d.QIDExpirationDate = v }),
		validate: func(d *Draft) validate.Result {
			value := strValue(d.QIDExpirationDate)
			if d.RequiresQID() && value == "" {
				return validate.Result{Message: "QID expiration date is required"}
			}
			return validate.DateWithinYears("QID expiration date", value, qidWindowYears)
		},
	},
	{
		name: "passportNumber", label: "Passport number", createTab: TabOptional, profileTab: TabDocuments,
		get: optStr(func(d *Draft) *string { return d.PassportNumber }),
		set: setOptStr(func(d *Draft, v *string) { d.PassportNumber = v }),
		validate: func(d *Draft) validate.Result {
			return validate.PassportNumber(strValue(d.PassportNumber))
		},
	},
	{
		name: "passportValidTill", label: "Passport valid till", createTab: TabOptional, profileTab: TabDocuments,
		get: optStr(func(d *Draft) *string { return d.PassportValidTill }),
		set: setOptStr(func(d *Draft, v *string) { d.PassportValidTill = v }),
		validate: func(d *Draft) validate.Result {
			return validate.DateWithinYears("Passport valid till", strValue(d.PassportValidTill), passportWindowYears)
		},
	},
}

const (
	confirmationWindowYears = 5
	qidWindowYears          = 5
	passportWindowYears     = 10
)

var fieldIndex = func() map[string]*fieldSpec {
	index := make(map[string]*fieldSpec, len(fieldRegistry))
	for i := range fieldRegistry {
		index[fieldRegistry[i].name] = &fieldRegistry[i]
	}
	return index
}()

func fieldsForTab(mode Mode, tab Tab) []*fieldSpec {
	var out []*fieldSpec
	for i := range fieldRegistry {
		if fieldRegistry[i].tab(mode) == tab {
			out = append(out, &fieldRegistry[i])
		}
	}
	return out
}

func fieldOrder(mode Mode, tab Tab) []string {
	specs := fieldsForTab(mode, tab)
	out := make([]string, 0, len(specs))
	for _, fs := range specs {
		out = append(out, fs.name)
	}
	return out
}
