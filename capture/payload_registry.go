package capture

import "github.com/c360studio/semstreams/component"

func init() {
	if err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "capture",
		Category:    "record",
		Version:     "v1",
		Description: "Standardized metadata record emitted by ingestion watchers",
		Factory:     func() any { return &Record{} },
	}); err != nil {
		panic("failed to register capture Record: " + err.Error())
	}
}
