// Package types provides the value types shared across the schema editor:
// field definitions, the type enumerations, and the wire shapes sent to the
// external generation service.
package types

import (
	"fmt"

	"github.com/google/uuid"
)

// FieldType enumerates the column types a Field may take.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
	FieldEmail   FieldType = "email"
	FieldPhone   FieldType = "phone"
	FieldAddress FieldType = "address"
)

// FieldTypes lists every valid FieldType in display order.
var FieldTypes = []FieldType{
	FieldString, FieldNumber, FieldBoolean, FieldDate,
	FieldEmail, FieldPhone, FieldAddress,
}

// ParseFieldType validates a raw string against the enumeration.
func ParseFieldType(raw string) (FieldType, error) {
	for _, ft := range FieldTypes {
		if string(ft) == raw {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unknown field type %q", raw)
}

// FileType enumerates the output formats the generation service produces.
type FileType string

const (
	FileJSON FileType = "json"
	FileCSV  FileType = "csv"
	FileXML  FileType = "xml"
)

// ParseFileType validates a raw string against the enumeration.
func ParseFileType(raw string) (FileType, error) {
	switch FileType(raw) {
	case FileJSON, FileCSV, FileXML:
		return FileType(raw), nil
	}
	return "", fmt.Errorf("unknown file type %q", raw)
}

// Field is one column definition in the schema being edited.
//
// Zero values:
//   - ID: uuid.Nil (invalid — minted by the store on add)
//   - Name: "" (invalid, required; stored trimmed)
//   - Type: "" (invalid, must be a FieldType)
//   - PrimaryKey: false
type Field struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	PrimaryKey bool      `json:"primaryKey"`
}

// Property is the over-the-wire projection of a Field. The ID is a
// local-editing concern and is stripped before transmission.
type Property struct {
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	PrimaryKey bool      `json:"primaryKey"`
}

// GenerationRequest is the payload POSTed to the external generation
// service. Property order matches schema order.
type GenerationRequest struct {
	FileType   FileType   `json:"fileType"`
	FileSize   int        `json:"fileSize"`
	Properties []Property `json:"properties"`
}

// Properties projects an ordered field list into its wire shape.
func Properties(fields []Field) []Property {
	props := make([]Property, len(fields))
	for i, f := range fields {
		props[i] = Property{Name: f.Name, Type: f.Type, PrimaryKey: f.PrimaryKey}
	}
	return props
}
