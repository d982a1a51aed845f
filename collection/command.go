package collection

import "encoding/json"

type Command struct {
	Name      string          `json:"name"`
	Uuid      string          `json:"uuid"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	commandInsert = "insert"
	commandRemove = "remove"
	commandUpdate = "update"
)
