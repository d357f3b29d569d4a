package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/utils"
)

// Notifier composes and dispatches workflow emails. Delivery is
// fire-and-forget: a failing mailer is logged and never surfaces to the
// operation that triggered the notification.
type Notifier struct {
	mailer Mailer
	wg     sync.WaitGroup
}

func NewNotifier(mailer Mailer) *Notifier {
	return &Notifier{mailer: mailer}
}

// Flush blocks until all in-flight notifications have been handed to the
// mailer. Tests and graceful shutdown use it.
func (n *Notifier) Flush() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(to, subject, body string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.mailer.Send(to, subject, body); err != nil {
			utils.ErrorLogger.Printf("failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

func (n *Notifier) OrderApproved(to string, item *models.Item) {
	body := fmt.Sprintf("Your order %s for %s has been approved.", item.DisplayName(), item.OrderLink)
	n.dispatch(to, "Order Approved", body)
}

func (n *Notifier) OrderDenied(to string, item *models.Item, reason string) {
	body := fmt.Sprintf("Your order %s for %s has been denied. Reason: %s", item.DisplayName(), item.OrderLink, reason)
	n.dispatch(to, "Order Denied", body)
}

func (n *Notifier) OrderReady(to string, item *models.Item) {
	body := fmt.Sprintf("Your order %s for %s is ready for pickup.", item.DisplayName(), item.OrderLink)
	n.dispatch(to, "Order Ready for Pickup", body)
}

// WeeklySummary mails the past week's orders to every admin address.
func (n *Notifier) WeeklySummary(to []string, orders []models.Order) {
	lines := make([]string, 0, len(orders))
	for _, order := range orders {
		lines = append(lines, fmt.Sprintf("Order ID: %d, Item: %s, Request Date: %s",
			order.ID, order.Item.DisplayName(), order.RequestDate))
	}
	body := fmt.Sprintf("Here are the orders from the past week:\n\n%s", strings.Join(lines, "\n"))
	for _, addr := range to {
		n.dispatch(addr, "Weekly Orders Summary", body)
	}
}
