package utils

import (
	"encoding/json"
)

// Remarshal converts between representations through JSON, typically a
// typed struct into a map for filter matching.
func Remarshal(input interface{}, output interface{}) (err error) {
	b, err := json.Marshal(input)
	if nil != err {
		return
	}
	return json.Unmarshal(b, output)
}
