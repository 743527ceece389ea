package types

// IngestRequest is the JSON body for POST /v1/events.
type IngestRequest struct {
	ID        string `json:"id,omitempty"`
	DeviceID  string `json:"device_id"`
	Type      string `json:"type"`
	Floor     int    `json:"floor"`
	Timestamp string `json:"timestamp"` // RFC3339 or "2006-01-02 15:04:05"
}

type IngestResponse struct {
	OK         bool   `json:"ok"`
	Known      bool   `json:"known"`
	ID         string `json:"id"`
	DeviceID   string `json:"device_id"`
	ServerTime string `json:"server_time"`
}

// DailyStat is one row of the daily wait-time report.
type DailyStat struct {
	Date      string `json:"date"` // ISO calendar date
	AverageMs int64  `json:"average_ms"`
	MedianMs  int64  `json:"median_ms"`
	Samples   int    `json:"samples"`
}

type DailyStatsResponse struct {
	Days       []DailyStat `json:"days"`
	ServerTime string      `json:"server_time"`
}
