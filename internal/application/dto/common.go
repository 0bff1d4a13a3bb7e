package dto

// ErrorResponse cuerpo de error HTTP.
// Available solo viaja en INSUFFICIENT_STOCK; Details solo en errores de validación de campos.
type ErrorResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Available *int         `json:"available,omitempty"`
	Details   []FieldError `json:"details,omitempty"`
}

// FieldError describe un campo rechazado por el validador.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ListResponse envoltorio para listados no paginados.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse construye el envoltorio garantizando items no nulo.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
