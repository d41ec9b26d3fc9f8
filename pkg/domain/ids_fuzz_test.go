package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseCertificateID checks parsing never panics and valid IDs round-trip.
func FuzzParseCertificateID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE batches;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseCertificateID(input)
		if err == nil {
			roundTrip, err2 := ParseCertificateID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}
		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAccountID checks accepted accounts round-trip through their checksummed form.
func FuzzParseAccountID(f *testing.F) {
	f.Add("")
	f.Add("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	f.Add("0x0000000000000000000000000000000000000000")
	f.Add("0x")

	f.Fuzz(func(t *testing.T, input string) {
		acct, err := ParseAccountID(input)
		if err != nil {
			return
		}
		if acct.IsNil() {
			t.Error("zero account accepted")
		}
		back, err := ParseAccountID(acct.String())
		if err != nil || back != acct {
			t.Errorf("account failed round-trip: %v", err)
		}
	})
}
