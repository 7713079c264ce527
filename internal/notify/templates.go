package notify

import (
	"fmt"

	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/provider"
)

const timeLayout = "Monday, January 2 2006 15:04"

// ConfirmationMail monta o e-mail de confirmação enviado pelo mailbox da
// marca após a reserva.
func ConfirmationMail(b *models.Booking, serviceName, brandName string) provider.Mail {
	html := fmt.Sprintf(`
		<h2>Booking Confirmation</h2>
		<p>Dear %s,</p>
		<p>Your booking has been confirmed with the following details:</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s - %s</li>
			<li><strong>Booking ID:</strong> %s</li>
		</ul>
		<p>If you need to cancel or reschedule, please contact us.</p>
		<br>
		<p>Best regards,<br>%s</p>
	`,
		b.CustomerName,
		serviceName,
		b.StartTime.Format("Monday, January 2 2006"),
		b.StartTime.Format("15:04"),
		b.EndTime.Format("15:04"),
		b.ID,
		brandName,
	)

	return provider.Mail{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: fmt.Sprintf("Booking Confirmation - %s", serviceName),
		HTML:    html,
	}
}

func CancellationMail(b *models.Booking, serviceName, brandName, reason string) provider.Mail {
	reasonRow := ""
	if reason != "" {
		reasonRow = fmt.Sprintf("<li><strong>Reason:</strong> %s</li>", reason)
	}

	html := fmt.Sprintf(`
		<h2>Booking Cancellation</h2>
		<p>Dear %s,</p>
		<p>Your booking has been cancelled:</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Original Date:</strong> %s</li>
			<li><strong>Booking ID:</strong> %s</li>
			%s
		</ul>
		<p>If you would like to reschedule, please visit our booking page.</p>
		<br>
		<p>Best regards,<br>%s</p>
	`,
		b.CustomerName,
		serviceName,
		b.StartTime.Format(timeLayout),
		b.ID,
		reasonRow,
		brandName,
	)

	return provider.Mail{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: fmt.Sprintf("Booking Cancellation - %s", serviceName),
		HTML:    html,
	}
}
