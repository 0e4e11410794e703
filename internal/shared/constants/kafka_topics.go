package constants

// Kafka header keys attached to participation events
const (
	HEADER_EVENT_TYPE = "event_type"
	HEADER_EVENT_ID   = "event_id"
	HEADER_SOURCE     = "source"

	EVENT_SOURCE = "mergington-activities"
)
