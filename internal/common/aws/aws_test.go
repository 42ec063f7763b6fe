package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmail(t *testing.T) {
	in := NewEmail("noreply@livest.dev", "tenant@example.com", "Approved", "Your application was approved")

	assert.Equal(t, []string{"tenant@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "noreply@livest.dev", *in.Source)
	assert.Equal(t, "Approved", *in.Message.Subject.Data)
	assert.Equal(t, "Your application was approved", *in.Message.Body.Text.Data)
}

func TestNewSMS(t *testing.T) {
	in := NewSMS("+15555550100", "hello", "")
	assert.Equal(t, "+15555550100", *in.PhoneNumber)
	assert.Contains(t, in.MessageAttributes, "AWS.SNS.SMS.SMSType")
	assert.NotContains(t, in.MessageAttributes, "AWS.SNS.SMS.SenderID")

	in = NewSMS("+15555550100", "hello", "LIVEST")
	assert.Equal(t, "LIVEST", *in.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
}
