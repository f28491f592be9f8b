package models

// RequestEcho repeats the caller's inputs in the debug envelope.
type RequestEcho struct {
	Query    string   `json:"q"`
	Retailer Retailer `json:"retailer"`
	URL      string   `json:"url"`
}

// PageInfo is the rendered page's state at capture time.
type PageInfo struct {
	Title      string `json:"title"`
	ReadyState string `json:"readyState"`
}

// DebugEnvelope is the response body for /search?debug=true.
type DebugEnvelope struct {
	Request    RequestEcho `json:"request"`
	Page       PageInfo    `json:"page"`
	Logs       []string    `json:"logs"`
	Count      int         `json:"count"`
	Sample     []Product   `json:"sample"`
	Screenshot string      `json:"screenshot,omitempty"`
}

// PageDiagnostics is the capture result gathered for debug responses.
// Screenshot is a self-describing data URI; fields that could not be read
// are left zero.
type PageDiagnostics struct {
	Title           string
	ReadyState      string
	ConsoleLogCount int
	Screenshot      string
}

// ErrorResponse is the 4xx/5xx body. Logs holds the console output
// gathered before the failure, capped by the handler.
type ErrorResponse struct {
	Error string   `json:"error"`
	URL   string   `json:"url,omitempty"`
	Logs  []string `json:"logs,omitempty"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// BannerResponse is the body for GET /.
type BannerResponse struct {
	Message string `json:"message"`
	Health  string `json:"health"`
}
