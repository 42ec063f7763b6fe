package createapplication

import "livest/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["applicationDate", "propertyId", "name", "email", "phoneNumber"],
	"properties": {
		"applicationDate": {"type": "string", "format": "date-time"},
		"propertyId":      {"type": "string", "minLength": 1},
		"name":            {"type": "string", "minLength": 1},
		"email":           {"type": "string", "format": "email"},
		"phoneNumber":     {"type": "string", "pattern": "^[0-9]{10}$"},
		"message":         {"type": "string", "maxLength": 500}
	}
}`).WithMessages(map[string]string{
	"applicationDate": "Application date must be an ISO-8601 timestamp",
	"propertyId":      "Property ID is required",
	"name":            "Name is required",
	"email":           "Invalid email address",
	"phoneNumber":     "Invalid phone number",
	"message":         "Message must be at most 500 characters",
})
