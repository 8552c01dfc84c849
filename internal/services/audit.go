package services

import (
	"context"
	"log"
	"time"

	"github.com/spamlookup/spamlookup-backend/internal/database"
	"github.com/spamlookup/spamlookup-backend/internal/models"
)

const requestLogCollection = "request_logs"

// LogRequest appends one audit entry to MongoDB. Failures are logged and
// swallowed: the audit trail must never fail a request.
func LogRequest(entry models.RequestLog) {
	if database.MongoDB == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		col := database.MongoDB.Collection(requestLogCollection)
		if _, err := col.InsertOne(ctx, entry); err != nil {
			log.Printf("WARNING: failed to write request log: %v", err)
		}
	}()
}
