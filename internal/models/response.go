package models

import "encoding/json"

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []error     `json:"errors"`
	Data    interface{} `json:"data"`
}

// MarshalJSON renders errors as strings unless the error knows how to
// marshal itself (e.g. BulkItemError).
func (r Response) MarshalJSON() ([]byte, error) {
	errors := make([]any, 0, len(r.Errors))
	for _, err := range r.Errors {
		if m, ok := err.(json.Marshaler); ok {
			errors = append(errors, m)
			continue
		}
		errors = append(errors, err.Error())
	}
	return json.Marshal(struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Errors  []any       `json:"errors"`
		Data    interface{} `json:"data"`
	}{
		Success: r.Success,
		Message: r.Message,
		Errors:  errors,
		Data:    r.Data,
	})
}

// HealthResponse is deliberately not wrapped in Response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
