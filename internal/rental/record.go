// Package rental models entries of the tourist accommodation registry and
// turns the ones of interest into styled map markers.
package rental

import (
	"bytes"
	"encoding/json"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Registry field names as they appear in the dataset.
const (
	FieldProvince     = "PROVINCIA"
	FieldMunicipality = "MUNICIPIO"
	FieldObjectType   = "TIPO_OBJETO"
	FieldGroup        = "GRUPO"
	FieldName         = "NOMBRE"
	FieldCode         = "COD_REGISTRO"
	FieldCoordX       = "COORD_X"
	FieldCoordY       = "COORD_Y"
)

// Value is a scalar dataset field. Strings, numbers and booleans are kept as
// text; a JSON null or a missing key leaves Present false.
type Value struct {
	Text    string
	Present bool
}

// Text builds a present value.
func Text(s string) Value {
	return Value{Text: s, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = Value{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	// Numbers, booleans and nested values keep their literal JSON text.
	*v = Text(string(b))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Present {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(v.Text)), nil
}

// String returns the text of the value, empty when absent.
func (v Value) String() string {
	return v.Text
}

// IsBlank reports whether the value is absent, empty or the literal "null".
func (v Value) IsBlank() bool {
	return !v.Present || v.Text == "" || v.Text == "null"
}

// Category is the closed set of object types the map distinguishes.
type Category int

// Object type categories.
const (
	CategoryOther Category = iota
	CategoryResidential
	CategoryApartment
)

// Registry spellings of the mapped object types.
const (
	TypeResidential = "Vivienda de uso turístico"
	TypeApartment   = "Apartamento turístico"
)

// ParseCategory resolves a TIPO_OBJETO value.
func ParseCategory(s string) Category {
	switch norm.NFC.String(s) {
	case TypeResidential:
		return CategoryResidential
	case TypeApartment:
		return CategoryApartment
	default:
		return CategoryOther
	}
}

func (c Category) String() string {
	switch c {
	case CategoryResidential:
		return "residential"
	case CategoryApartment:
		return "apartment"
	default:
		return "other"
	}
}

// Label returns the registry spelling of the category.
func (c Category) Label() string {
	switch c {
	case CategoryResidential:
		return TypeResidential
	case CategoryApartment:
		return TypeApartment
	default:
		return ""
	}
}

// Group is the closed set of GRUPO values that affect styling.
type Group int

// Group values.
const (
	GroupOther Group = iota
	GroupComplete
)

// GroupCompleteLabel is the registry spelling of a whole-dwelling rental.
const GroupCompleteLabel = "Completa"

// ParseGroup resolves a GRUPO value.
func ParseGroup(s string) Group {
	if norm.NFC.String(s) == GroupCompleteLabel {
		return GroupComplete
	}
	return GroupOther
}

// Record is one registry entry. Category and Group are resolved when the
// record is decoded or built with NewRecord.
type Record struct {
	Province     Value `json:"PROVINCIA"`
	Municipality Value `json:"MUNICIPIO"`
	ObjectType   Value `json:"TIPO_OBJETO"`
	GroupName    Value `json:"GRUPO"`
	Name         Value `json:"NOMBRE"`
	Code         Value `json:"COD_REGISTRO"`
	CoordX       Value `json:"COORD_X"`
	CoordY       Value `json:"COORD_Y"`

	Category Category `json:"-"`
	Group    Group    `json:"-"`
}

// UnmarshalJSON decodes the registry fields and resolves the enumerations.
func (r *Record) UnmarshalJSON(b []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Record(p)
	r.resolve()
	return nil
}

// NewRecord builds a record from a field-name keyed row, as read from a
// spreadsheet. Empty cells count as absent.
func NewRecord(fields map[string]string) Record {
	get := func(k string) Value {
		s, ok := fields[k]
		if !ok || s == "" {
			return Value{}
		}
		return Text(s)
	}
	r := Record{
		Province:     get(FieldProvince),
		Municipality: get(FieldMunicipality),
		ObjectType:   get(FieldObjectType),
		GroupName:    get(FieldGroup),
		Name:         get(FieldName),
		Code:         get(FieldCode),
		CoordX:       get(FieldCoordX),
		CoordY:       get(FieldCoordY),
	}
	r.resolve()
	return r
}

func (r *Record) resolve() {
	r.Category = ParseCategory(r.ObjectType.Text)
	r.Group = ParseGroup(r.GroupName.Text)
}

// DisplayName returns the declared name, or the registration code when the
// name is absent, empty or "null".
func (r Record) DisplayName() string {
	if r.Name.IsBlank() {
		return r.Code.Text
	}
	return r.Name.Text
}
