package amqp

import (
	"encoding/json"
	"time"
)

// StatementExportMessage asks the export worker to push one statement
// month to the spreadsheet. It carries only the month reference; the
// worker reads the transactions from storage.
type StatementExportMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewStatementExportMessage(year, month int) *StatementExportMessage {
	return &StatementExportMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *StatementExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatementExportMessageFromJSON(data []byte) (*StatementExportMessage, error) {
	var msg StatementExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
