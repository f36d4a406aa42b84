// Package model holds the persisted entities of the grade journal and the
// request payloads accepted by the record API.
package model

// Named is implemented by the entities that consist of an id and a
// unique name: students and subjects.
type Named interface {
	GetID() int64
	GetName() string
	SetName(name string)

	// EntityName is the human label used in messages ("Student").
	EntityName() string
}

// StatusResponse is the small acknowledgement body returned by mutating
// endpoints that have nothing else to report.
type StatusResponse struct {
	Status string `json:"status"`
}

var (
	StatusDeleted = StatusResponse{Status: "deleted"}
	StatusOK      = StatusResponse{Status: "ok"}
)
