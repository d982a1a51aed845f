package apistorev1

import (
	"context"
	"os"
)

// This is experimental
func size(ctx context.Context) (interface{}, error) {

	st, err := requestStore(ctx)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{}

	entries, err := st.Count()
	if err != nil {
		return nil, err
	}
	result["entries"] = entries

	// Disk
	info, err := os.Stat(st.Filename())
	if err == nil {
		result["disk"] = info.Size()
	}

	return result, nil
}
