package document

import "testing"

func hasType(set []DocType, dt DocType) bool {
	for _, t := range set {
		if t == dt {
			return true
		}
	}
	return false
}

func TestRequiredForSingle(t *testing.T) {
	set := RequiredFor("Single")
	if len(set) != 4 {
		t.Fatalf("expected 4 required documents for single, got %d", len(set))
	}
	for _, want := range []DocType{TypePSA, TypeITR, TypeMedCert, TypeCenomar} {
		if !hasType(set, want) {
			t.Fatalf("single set missing %s", want)
		}
	}
	if hasType(set, TypeMarriage) {
		t.Fatalf("single set should not require a marriage certificate")
	}
}

func TestRequiredForMarriedAndDivorced(t *testing.T) {
	for _, cs := range []string{"Married", "Divorced"} {
		set := RequiredFor(cs)
		if !hasType(set, TypeMarriage) {
			t.Fatalf("%s set missing marriage certificate", cs)
		}
		if hasType(set, TypeCenomar) || hasType(set, TypeDeathCert) {
			t.Fatalf("%s set has unexpected types: %v", cs, set)
		}
	}
}

func TestRequiredForWidowed(t *testing.T) {
	set := RequiredFor("Widowed")
	if !hasType(set, TypeMarriage) || !hasType(set, TypeDeathCert) {
		t.Fatalf("widowed set missing marriage or death certificate: %v", set)
	}
	if len(set) != 5 {
		t.Fatalf("expected 5 required documents for widowed, got %d", len(set))
	}
}

func TestRequiredForUnknownFallsBackToBase(t *testing.T) {
	set := RequiredFor("Separated")
	if len(set) != 3 {
		t.Fatalf("expected base set of 3, got %v", set)
	}
}

func TestLookup(t *testing.T) {
	dt, meta, err := Lookup("psa")
	if err != nil {
		t.Fatalf("Lookup(psa): %v", err)
	}
	if dt != TypePSA || meta.Table != "psa_documents" {
		t.Fatalf("Lookup(psa) = %s / %s", dt, meta.Table)
	}

	// table-name form is accepted too
	dt, _, err = Lookup("med_cert_documents")
	if err != nil {
		t.Fatalf("Lookup(med_cert_documents): %v", err)
	}
	if dt != TypeMedCert {
		t.Fatalf("Lookup(med_cert_documents) = %s", dt)
	}

	if _, _, err := Lookup("users; DROP TABLE users"); err == nil {
		t.Fatalf("Lookup accepted an unregistered name")
	}
	if _, _, err := Lookup(""); err == nil {
		t.Fatalf("Lookup accepted an empty name")
	}
}
