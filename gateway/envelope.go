package gateway

import "encoding/json"

// Envelope is the uniform response wrapper the backend emits for every
// resource: {success, message, data, errors}.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// Paged is the pagination payload some list endpoints nest inside the
// envelope's data field.
type Paged[T any] struct {
	Items      []T `json:"data"`
	TotalCount int `json:"totalCount"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}
