package models

import "time"

type RequestLog struct {
	Datetime       time.Time         `json:"datetime"`
	Method         string            `json:"method"`
	Endpoint       string            `json:"endpoint"`
	RequestHeaders map[string]string `json:"request_headers"`
	Payload        []byte            `json:"payload"`
	ResponseBody   []byte            `json:"response_body"`
	StatusCode     int               `json:"status_code"`
}
