package logger

import (
	"log"

	log_model "venue-booking/models/log"
	"venue-booking/types"

	"gorm.io/gorm"
)

// AsyncLogger drains request log entries into the logs table off the
// request path.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
	}
}

// ProcessLog consumes the channel until it is closed. Run in a goroutine.
func (logger *AsyncLogger) ProcessLog() {
	log.Println("Starting asynchronous logger...")

	for logEntry := range logger.channel {
		dbLog := log_model.Log{
			Method:          logEntry.Method,
			URL:             logEntry.URL,
			UserID:          logEntry.UserID,
			RequestBody:     logEntry.RequestBody,
			ResponseBody:    logEntry.ResponseBody,
			RequestHeaders:  logEntry.RequestHeaders,
			ResponseHeaders: logEntry.ResponseHeaders,
			StatusCode:      logEntry.StatusCode,
			CreatedAt:       logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			log.Printf("Failed to insert log entry: %v", err)
		}
	}
}

// Log pushes a log entry into the channel.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	logger.channel <- entry
}
