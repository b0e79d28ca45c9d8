package storeapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// Form is a multipart/form-data body, the encoding the API expects for mutations.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a text field. Fields keep insertion order.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *Form) SetInt(name string, value int) *Form {
	return f.Set(name, strconv.Itoa(value))
}

func (f *Form) SetUint(name string, value uint) *Form {
	return f.Set(name, strconv.FormatUint(uint64(value), 10))
}

// SetIfNotEmpty appends the field only when value is not empty.
func (f *Form) SetIfNotEmpty(name, value string) *Form {
	if value == "" {
		return f
	}
	return f.Set(name, value)
}

// AddFile appends a file part.
func (f *Form) AddFile(field, filename string, content io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, content: content})
	return f
}

// Value returns the first value of a text field.
func (f *Form) Value(name string) (string, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field.value, true
		}
	}
	return "", false
}

// Encode renders the body and returns it with its Content-Type (boundary included).
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", fmt.Errorf("failed to copy form file %s: %w", file.field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
