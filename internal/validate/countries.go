package validate

// Country carries the dial code and the expected local digit count used by
// the phone validator and the record composer.
type Country struct {
	Code        string
	Name        string
	DialCode    string
	PhoneDigits int
}

var countries = []Country{
	{Code: "AE", Name: "United Arab Emirates", DialCode: "+971", PhoneDigits: 9},
	{Code: "AU", Name: "Australia", DialCode: "+61", PhoneDigits: 9},
	{Code: "BD", Name: "Bangladesh", DialCode: "+880", PhoneDigits: 10},
	{Code: "BH", Name: "Bahrain", DialCode: "+973", PhoneDigits: 8},
	{Code: "BR", Name: "Brazil", DialCode: "+55", PhoneDigits: 11},
	{Code: "CA", Name: "Canada", DialCode: "+1", PhoneDigits: 10},
	{Code: "CH", Name: "Switzerland", DialCode: "+41", PhoneDigits: 9},
	{Code: "CN", Name: "China", DialCode: "+86", PhoneDigits: 11},
	{Code: "DE", Name: "Germany", DialCode: "+49", PhoneDigits: 11},
	{Code: "EG", Name: "Egypt", DialCode: "+20", PhoneDigits: 10},
	{Code: "ES", Name: "Spain", DialCode: "+34", PhoneDigits: 9},
	{Code: "FR", Name: "France", DialCode: "+33", PhoneDigits: 9},
	{Code: "GB", Name: "United Kingdom", DialCode: "+44", PhoneDigits: 10},
	{Code: "ID", Name: "Indonesia", DialCode: "+62", PhoneDigits: 11},
	{Code: "IN", Name: "India", DialCode: "+91", PhoneDigits: 10},
	{Code: "IT", Name: "Italy", DialCode: "+39", PhoneDigits: 10},
	{Code: "JO", Name: "Jordan", DialCode: "+962", PhoneDigits: 9},
	{Code: "JP", Name: "Japan", DialCode: "+81", PhoneDigits: 10},
	{Code: "KE", Name: "Kenya", DialCode: "+254", PhoneDigits: 9},
	{Code: "KW", Name: "Kuwait", DialCode: "+965", PhoneDigits: 8},
	{Code: "LB", Name: "Lebanon", DialCode: "+961", PhoneDigits: 8},
	{Code: "LK", Name: "Sri Lanka", DialCode: "+94", PhoneDigits: 9},
	{Code: "MA", Name: "Morocco", DialCode: "+212", PhoneDigits: 9},
	{Code: "MY", Name: "Malaysia", DialCode: "+60", PhoneDigits: 9},
	{Code: "NG", Name: "Nigeria", DialCode: "+234", PhoneDigits: 10},
	{Code: "NL", Name: "Netherlands", DialCode: "+31", PhoneDigits: 9},
	{Code: "NP", Name: "Nepal", DialCode: "+977", PhoneDigits: 10},
	{Code: "NZ", Name: "New Zealand", DialCode: "+64", PhoneDigits: 9},
	{Code: "OM", Name: "Oman", DialCode: "+968", PhoneDigits: 8},
	{Code: "PH", Name: "Philippines", DialCode: "+63", PhoneDigits: 10},
	{Code: "PK", Name: "Pakistan", DialCode: "+92", PhoneDigits: 10},
	{Code: "QA", Name: "Qatar", DialCode: "+974", PhoneDigits: 8},
	{Code: "SA", Name: "Saudi Arabia", DialCode: "+966", PhoneDigits: 9},
	{Code: "SE", Name: "Sweden", DialCode: "+46", PhoneDigits: 9},
	{Code: "SG", Name: "Singapore", DialCode: "+65", PhoneDigits: 8},
	{Code: "TR", Name: "Turkey", DialCode: "+90", PhoneDigits: 10},
	{Code: "US", Name: "United States", DialCode: "+1", PhoneDigits: 10},
	{Code: "ZA", Name: "South Africa", DialCode: "+27", PhoneDigits: 9},
}

var countryIndex = func() map[string]Country {
	index := make(map[string]Country, len(countries))
	for _, c := range countries {
		index[c.Code] = c
	}
	return index
}()

func CountryByCode(code string) (Country, bool) {
	country, found := countryIndex[code]
	return country, found
}

// Countries returns a copy of the supported country table.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}
