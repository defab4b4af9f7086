package rental

import (
	"regexp"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// Rejection names the first filter predicate a record failed.
type Rejection string

// Rejection reasons. An accepted record has RejectNone.
const (
	RejectNone         Rejection = ""
	RejectProvince     Rejection = "province"
	RejectMunicipality Rejection = "municipality"
	RejectCategory     Rejection = "category"
	RejectCoordinates  Rejection = "coordinates"
)

// Filter selects the records to be mapped.
type Filter struct {
	province     *regexp.Regexp
	municipality *regexp.Regexp
}

// NewFilter compiles the province and municipality expressions. Both only
// need to match a prefix of the field, not the whole of it.
func NewFilter(provinceExpr, municipalityExpr string) (*Filter, error) {
	prov, err := CompileLeading(provinceExpr)
	if err != nil {
		return nil, eris.Wrapf(err, "rental: province pattern %q", provinceExpr)
	}
	muni, err := CompileLeading(municipalityExpr)
	if err != nil {
		return nil, eris.Wrapf(err, "rental: municipality pattern %q", municipalityExpr)
	}
	return &Filter{province: prov, municipality: muni}, nil
}

// CompileLeading compiles expr anchored at the start of the input. The
// expression is NFC-normalized so it compares equal to normalized fields.
func CompileLeading(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + norm.NFC.String(expr) + `)`)
}

// Accept reports whether r passes every predicate.
func (f *Filter) Accept(r Record) bool {
	return f.Reason(r) == RejectNone
}

// Reason returns the first predicate r fails, or RejectNone.
func (f *Filter) Reason(r Record) Rejection {
	if !f.province.MatchString(norm.NFC.String(r.Province.String())) {
		return RejectProvince
	}
	if !f.municipality.MatchString(norm.NFC.String(r.Municipality.String())) {
		return RejectMunicipality
	}
	if r.Category == CategoryOther {
		return RejectCategory
	}
	if r.CoordX.IsBlank() || r.CoordY.IsBlank() {
		return RejectCoordinates
	}
	return RejectNone
}
