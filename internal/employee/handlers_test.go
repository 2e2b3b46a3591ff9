package employee

import "testing"

func TestValidateIdentityAcceptsQualifiedRecord(t *testing.T) {
	problems := validateIdentity("Jane", "Doe", "jane@co.com", "+919876543210", "IN")
	if len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}

func TestValidateIdentityCollectsAllFieldProblems(t *testing.T) {
	problems := validateIdentity("", "Doe", "not-an-email", "12345", "XX")
	for _, field := range []string{"firstName", "email", "phone", "country"} {
		if _, ok := problems[field]; !ok {
			t.Fatalf("expected a problem for %s, got %v", field, problems)
		}
	}
	if _, ok := problems["lastName"]; ok {
		t.Fatal("lastName was valid and must not be flagged")
	}
}

func TestValidatePhoneRequiresDialCode(t *testing.T) {
	if res := validatePhone("9876543210"); res.Valid {
		t.Fatal("expected a phone without a dial code to be rejected")
	}
	if res := validatePhone("+919876543210"); !res.Valid {
		t.Fatalf("expected qualified phone to pass, got %q", res.Message)
	}
	if res := validatePhone(""); res.Valid {
		t.Fatal("expected empty phone to be rejected")
	}
}
