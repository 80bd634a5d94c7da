// Package actions defines the catalog of web API admin actions and the
// pipeline that authorizes, validates and executes them.
package actions

// FieldType selects how a form value is parsed and rendered.
type FieldType string

const (
	FieldInteger FieldType = "integer"
	FieldAmount  FieldType = "amount"
	FieldText    FieldType = "text"
	FieldBoolean FieldType = "boolean"
	FieldChoice  FieldType = "choice"
)

// ChoiceOption is one allowed value of a choice field.
type ChoiceOption struct {
	Value    string
	LabelKey string
}

// FieldSpec describes a single input of an action form.
type FieldSpec struct {
	Name        string
	LabelKey    string
	Type        FieldType
	Required    bool
	Min         int64
	Default     string
	Placeholder string
	Rows        int
	Options     []ChoiceOption
}

// Definition is one entry of the action catalog.
type Definition struct {
	Key            string
	TitleKey       string
	DescriptionKey string
	Permission     string
	Fields         []FieldSpec
}

// Values holds the typed field values of a validated submission. Integer
// fields are stored as int64, amounts as kopeks, booleans and choice strings
// under their field name.
type Values map[string]any

// Int returns an integer field value.
func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

// Kopeks returns an amount field value in kopeks.
func (v Values) Kopeks(name string) int64 {
	return v.Int(name)
}

// Text returns a text or choice field value.
func (v Values) Text(name string) string {
	s, _ := v[name].(string)
	return s
}

// Bool returns a boolean field value.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}
