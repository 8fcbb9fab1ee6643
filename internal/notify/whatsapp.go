package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/lazypower/stayintouch/internal/config"
)

// whatsappPrefix marks a Twilio address as a WhatsApp endpoint.
const whatsappPrefix = "whatsapp:"

// maxWhatsAppBody is Twilio's per-message body limit.
const maxWhatsAppBody = 1600

// messageCreator is the part of the Twilio API service used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsApp sends the digest through Twilio's WhatsApp API.
type WhatsApp struct {
	cfg config.WhatsAppConfig
	api messageCreator
}

// NewWhatsApp builds the Twilio channel. With incomplete settings every send
// fails with ErrNotConfigured.
func NewWhatsApp(cfg config.WhatsAppConfig) *WhatsApp {
	w := &WhatsApp{cfg: cfg}
	if cfg.Enabled() {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		w.api = client.Api
	}
	return w
}

func (w *WhatsApp) Name() string { return "whatsapp" }

// Notify sends the subject line followed by the body as one message.
func (w *WhatsApp) Notify(ctx context.Context, msg Message) Outcome {
	if w.api == nil {
		return failed(w.Name(), ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return failed(w.Name(), err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddr(w.cfg.To))
	params.SetFrom(whatsappAddr(w.cfg.From))
	params.SetBody(whatsappBody(msg))

	resp, err := w.api.CreateMessage(params)
	if err != nil {
		return failed(w.Name(), fmt.Errorf("create message: %w", err))
	}
	ref := ""
	if resp != nil && resp.Sid != nil {
		ref = *resp.Sid
	}
	return sent(w.Name(), ref)
}

func whatsappAddr(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}

func whatsappBody(msg Message) string {
	body := msg.Body
	if msg.Subject != "" {
		body = "*" + msg.Subject + "*\n\n" + body
	}
	if r := []rune(body); len(r) > maxWhatsAppBody {
		body = string(r[:maxWhatsAppBody-1]) + "…"
	}
	return body
}
