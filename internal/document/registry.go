package document

import (
	"fmt"
	"strings"
)

// DocType is a closed set of supporting-document kinds. Table names are only
// ever produced by the registry below, never interpolated from request input.
type DocType string

const (
	TypePSA          DocType = "psa"
	TypeITR          DocType = "itr"
	TypeMedCert      DocType = "med_cert"
	TypeMarriage     DocType = "marriage"
	TypeCenomar      DocType = "cenomar"
	TypeDeathCert    DocType = "death_cert"
	TypeBarangayCert DocType = "barangay_cert"
)

// TableMeta describes the backing table for one document type.
type TableMeta struct {
	Table       string
	DisplayName string
}

var registry = map[DocType]TableMeta{
	TypePSA:          {Table: "psa_documents", DisplayName: "PSA Birth Certificate"},
	TypeITR:          {Table: "itr_documents", DisplayName: "Income Tax Return"},
	TypeMedCert:      {Table: "med_cert_documents", DisplayName: "Medical Certificate"},
	TypeMarriage:     {Table: "marriage_documents", DisplayName: "Marriage Certificate"},
	TypeCenomar:      {Table: "cenomar_documents", DisplayName: "CENOMAR"},
	TypeDeathCert:    {Table: "death_cert_documents", DisplayName: "Death Certificate"},
	TypeBarangayCert: {Table: "barangay_cert_documents", DisplayName: "Barangay Certificate"},
}

// AllTypes lists every registered document type in a fixed order.
func AllTypes() []DocType {
	return []DocType{TypePSA, TypeITR, TypeMedCert, TypeMarriage, TypeCenomar, TypeDeathCert, TypeBarangayCert}
}

// Lookup resolves a document type to its table metadata. Clients may send
// either the short code ("psa") or the full table name ("psa_documents");
// both are accepted, anything else is rejected.
func Lookup(raw string) (DocType, TableMeta, error) {
	code := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "_documents")
	dt := DocType(code)
	meta, ok := registry[dt]
	if !ok {
		return "", TableMeta{}, fmt.Errorf("invalid document type: %s", raw)
	}
	return dt, meta, nil
}

// Meta returns the table metadata for a known type.
func Meta(dt DocType) TableMeta {
	return registry[dt]
}

// RequiredFor returns the document types an applicant must submit, determined
// by civil status. The base set applies to everyone; the marital documents
// come on top of it.
func RequiredFor(civilStatus string) []DocType {
	base := []DocType{TypePSA, TypeITR, TypeMedCert}

	switch strings.ToLower(strings.TrimSpace(civilStatus)) {
	case "single":
		return append(base, TypeCenomar)
	case "married", "divorced":
		return append(base, TypeMarriage)
	case "widowed":
		return append(base, TypeMarriage, TypeDeathCert)
	default:
		return base
	}
}
