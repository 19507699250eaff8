package types

// ApiResponse is the JSON envelope for every API endpoint. Successful
// responses carry Data (and Meta for paginated listings); failures carry
// one human-readable message per violated rule.
type ApiResponse struct {
	Success bool                   `json:"success"`
	Data    interface{}            `json:"data,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Errors  []string               `json:"errors,omitempty"`
}

// Ok wraps a success payload without listing metadata.
func Ok(data interface{}) ApiResponse {
	return ApiResponse{Success: true, Data: data}
}

// OkWithMeta wraps a success payload plus pagination/aggregate metadata.
func OkWithMeta(data interface{}, meta map[string]interface{}) ApiResponse {
	return ApiResponse{Success: true, Data: data, Meta: meta}
}

// Fail wraps field-scoped error messages.
func Fail(errors ...string) ApiResponse {
	return ApiResponse{Success: false, Errors: errors}
}
