package logging

// Standardized attribute keys shared across worker components.
const (
	FieldComponent = "component"

	FieldJobID = "job_id"

	FieldCommandID = "command_id"

	FieldCommandType = "command_type"

	FieldStage = "stage"

	FieldCapability = "capability"

	FieldModel = "model"

	FieldTopic = "topic"

	FieldPage = "page"

	FieldEventType = "event_type"

	FieldErrorHint = "error_hint"
)
