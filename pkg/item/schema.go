package item

import "strings"

// Structural field kinds as reported by the Projects V2 API.
const (
	SchemaPlain        = "ProjectV2Field"
	SchemaSingleSelect = "ProjectV2SingleSelectField"
	SchemaIteration    = "ProjectV2IterationField"
)

// Logical data types for plain fields.
const (
	DataTypeNumber = "NUMBER"
	DataTypeText   = "TEXT"
	DataTypeDate   = "DATE"
)

// SelectOption is one choice of a single-select project field.
type SelectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// FieldSchema is a project field definition. Options is populated only
// for single-select fields, in the order the board lists them.
type FieldSchema struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	DataType string         `json:"data_type"`
	Kind     string         `json:"kind"` // structural kind: SchemaPlain, SchemaSingleSelect, ...
	Options  []SelectOption `json:"options,omitempty"`
}

// ProjectInfo is a project's identity plus its field schema.
type ProjectInfo struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Fields []FieldSchema `json:"fields"`
}

// FieldNamed returns the first field whose name matches one of the given
// names, case-insensitively, in schema order.
func (p *ProjectInfo) FieldNamed(names ...string) (FieldSchema, bool) {
	for _, f := range p.Fields {
		for _, n := range names {
			if strings.EqualFold(f.Name, n) {
				return f, true
			}
		}
	}
	return FieldSchema{}, false
}
