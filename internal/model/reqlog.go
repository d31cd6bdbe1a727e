package model

type RequestLog struct {
	ID         string `json:"id"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
	Account    string `json:"account,omitempty"`
	Platform   string `json:"platform,omitempty"`
	ErrorCode  string `json:"error_code,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type RequestLogQuery struct {
	Method  string
	Path    string
	Account string
	Status  int
	From    string
	To      string
	Page    int
	Limit   int
}
