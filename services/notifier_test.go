package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/services"
	"github.com/ita-disc-inventory/backend/utils"
)

type failingMailer struct{ calls int }

func (m *failingMailer) Send(to, subject, body string) error {
	m.calls++
	return errors.New("smtp: 550 mailbox unavailable")
}

func TestNotifierSwallowsMailerFailures(t *testing.T) {
	utils.InitLogger()
	mailer := &failingMailer{}
	notifier := services.NewNotifier(mailer)

	item := models.Item{OrderLink: "https://supplies.example/kit", ItemName: "Art Kit"}
	notifier.OrderApproved("therapist@clinic.test", &item)
	notifier.Flush()

	assert.Equal(t, 1, mailer.calls, "the failure is logged, never propagated")
}

func TestNotifierMessageBodies(t *testing.T) {
	utils.InitLogger()
	mailer := &recordMailer{}
	notifier := services.NewNotifier(mailer)

	named := models.Item{OrderLink: "https://supplies.example/kit", ItemName: "Art Kit"}
	unnamed := models.Item{OrderLink: "https://supplies.example/mystery"}

	notifier.OrderApproved("a@clinic.test", &named)
	notifier.OrderDenied("a@clinic.test", &named, "Out of stock")
	notifier.OrderReady("a@clinic.test", &unnamed)
	notifier.Flush()

	sent := mailer.all()
	require.Len(t, sent, 3)

	bySubject := map[string]string{}
	for _, m := range sent {
		bySubject[m.Subject] = m.Body
	}
	assert.Equal(t, "Your order Art Kit for https://supplies.example/kit has been approved.", bySubject["Order Approved"])
	assert.Equal(t, "Your order Art Kit for https://supplies.example/kit has been denied. Reason: Out of stock", bySubject["Order Denied"])
	assert.Equal(t, "Your order <no-name-provided> for https://supplies.example/mystery is ready for pickup.", bySubject["Order Ready for Pickup"])
}
