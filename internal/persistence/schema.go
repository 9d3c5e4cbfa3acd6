package persistence

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// timestampPattern is spliced into the JSON schema text, so its backslashes are JSON-escaped.
const timestampPattern = `^\\d{4}-\\d{2}-\\d{2} \\d{2}:\\d{2}:\\d{2}$`

var documentSchema = gojsonschema.NewStringLoader(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["tickets"],
  "properties": {
    "tickets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "description", "category", "priority", "status",
                     "employee_id", "employee_name", "created_date", "updated_date"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "category": {"type": "string"},
          "priority": {"type": "string"},
          "urgency": {"type": "string"},
          "status": {"type": "string"},
          "employee_id": {"type": "string"},
          "employee_name": {"type": "string"},
          "employee_email": {"type": "string"},
          "department": {"type": "string"},
          "location": {"type": "string"},
          "phone": {"type": "string"},
          "created_date": {"type": "string", "pattern": "` + timestampPattern + `"},
          "updated_date": {"type": "string", "pattern": "` + timestampPattern + `"},
          "assigned_to": {"type": ["string", "null"]},
          "resolution": {"type": "string"},
          "attachments": {"type": "array", "items": {"type": "string"}},
          "comments": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["author", "comment", "timestamp"],
              "properties": {
                "author": {"type": "string"},
                "comment": {"type": "string"},
                "timestamp": {"type": "string", "pattern": "` + timestampPattern + `"}
              }
            }
          }
        }
      }
    },
    "settings": {
      "type": "object",
      "properties": {
        "auto_assign": {"type": "boolean"},
        "escalation_enabled": {"type": "boolean"},
        "business_hours_only": {"type": "boolean"},
        "default_priority": {"type": "string"},
        "max_response_time": {"type": "integer", "minimum": 0},
        "notification_settings": {
          "type": "object",
          "properties": {
            "email_enabled": {"type": "boolean"},
            "sms_enabled": {"type": "boolean"},
            "slack_enabled": {"type": "boolean"}
          }
        }
      }
    }
  }
}`)

func validateDocument(data []byte) error {
	result, err := gojsonschema.Validate(documentSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrCorruptDocument, strings.Join(problems, "; "))
}
