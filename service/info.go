package service

import (
	"github.com/google/uuid"
)

type CapacityInfo struct {
	Unlimited bool `json:"unlimited"`
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	Target    int  `json:"target"`
	Remaining int  `json:"remaining"`
}

type StoreInfo struct {
	Name     string        `json:"name"`
	Total    int           `json:"total"`
	Head     *uuid.UUID    `json:"head"`
	Tail     *uuid.UUID    `json:"tail"`
	Capacity *CapacityInfo `json:"capacity"`
}

func Info(name string, st *Store) *StoreInfo {

	info := &StoreInfo{
		Name: name,
	}

	if total, err := st.Count(); err == nil {
		info.Total = total
	}

	if head, ok := st.HeadID(); ok {
		info.Head = &head
	}
	if tail, ok := st.TailID(); ok {
		info.Tail = &tail
	}

	pol := st.Capacity()
	info.Capacity = &CapacityInfo{
		Unlimited: pol.Unlimited(),
		Min:       pol.Min(),
		Max:       pol.Max(),
		Target:    pol.Target(),
		Remaining: pol.Remaining(),
	}

	return info
}
