package decideapplication

import (
	"livest/internal/common/validation"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["status"],
	"properties": {
		"status": {
			"type": "string",
			"enum": ["Pending", "Approved", "Denied"]
		}
	}
}`).WithMessages(map[string]string{
	"status": "Status must be one of Pending, Approved, Denied",
})
