package models

import "time"

// RequestLog is one audit entry per API request, stored in MongoDB.
// UserID is empty for unauthenticated requests.
type RequestLog struct {
	UserID      string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	RequestType string                 `bson:"request_type" json:"request_type"`
	RequestPath string                 `bson:"request_path" json:"request_path"`
	Data        map[string]interface{} `bson:"data" json:"data"`
	Timestamp   time.Time              `bson:"timestamp" json:"timestamp"`
}
