package notify

import (
	"context"
	"log"
	"time"

	"github.com/KundeServices/booking-gateway/internal/provider"
)

// Mailer é a capacidade mínima de envio; o gateway do provider a satisfaz.
type Mailer interface {
	SendMail(ctx context.Context, mailbox string, mail provider.Mail) error
}

type Message struct {
	Mailbox string
	Mail    provider.Mail
}

// Dispatcher envia notificações fire-and-forget. Falha de envio é logada e
// nunca afeta o resultado da reserva.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, 100), // buffer seguro
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := d.mailer.SendMail(ctx, msg.Mailbox, msg.Mail); err != nil {
			log.Println("notify error:", err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
		// enviado
	default:
		// fila cheia → descartamos a notificação (nunca quebrar a reserva)
		log.Println("notify queue full, dropping message")
	}
}
