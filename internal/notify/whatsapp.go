package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/datsun80zx/repairtrack/internal/config"
)

var (
	// ErrNotConfigured is returned when Cloud API credentials are missing
	ErrNotConfigured = errors.New("whatsapp is not configured")

	ErrMissingRecipient = errors.New("missing recipient phone")
	ErrMissingMessage   = errors.New("missing message")
)

// Connection states reported by Status
const (
	StateNotConfigured = "not-configured"
	StateConnected     = "connected"
	StateDisconnected  = "disconnected"
)

// Options configures a WhatsApp client
type Options struct {
	APIURL        string
	PhoneNumberID string
	AccessToken   string
	DefaultRegion string
	Timeout       time.Duration
	Logger        logrus.FieldLogger
}

// OptionsFromConfig maps the WHATSAPP_* settings
func OptionsFromConfig(cfg *config.Config, logger logrus.FieldLogger) Options {
	return Options{
		APIURL:        cfg.WhatsAppAPIURL,
		PhoneNumberID: cfg.WhatsAppPhoneNumberID,
		AccessToken:   cfg.WhatsAppAccessToken,
		DefaultRegion: cfg.WhatsAppDefaultRegion,
		Logger:        logger,
	}
}

// Client sends text messages through the WhatsApp Cloud API
type Client struct {
	http          *resty.Client
	phoneNumberID string
	region        string
	configured    bool
	log           logrus.FieldLogger
}

// SendResult identifies a message accepted by the API
type SendResult struct {
	To        string `json:"to"`
	MessageID string `json:"messageId"`
}

// Status describes whether messages can be sent
type Status struct {
	Configured  bool   `json:"configured"`
	Connected   bool   `json:"connected"`
	Status      string `json:"status"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Error       string `json:"error,omitempty"`
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type phoneResponse struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	VerifiedName       string `json:"verified_name"`
}

// apiError is the Graph API error body
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (e *apiError) message(status int) string {
	if e != nil && e.Error.Message != "" {
		return fmt.Sprintf("%s (code %d)", e.Error.Message, e.Error.Code)
	}
	return fmt.Sprintf("status %d", status)
}

// New creates a client. Missing credentials leave it unconfigured: Send
// returns ErrNotConfigured and Status says so.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = DefaultRegion
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(opts.APIURL, "/")).
			SetTimeout(opts.Timeout).
			SetAuthToken(opts.AccessToken).
			SetHeader("Accept", "application/json"),
		phoneNumberID: opts.PhoneNumberID,
		region:        opts.DefaultRegion,
		configured:    opts.APIURL != "" && opts.PhoneNumberID != "" && opts.AccessToken != "",
		log:           opts.Logger.WithField("module", "notify"),
	}
}

// Configured reports whether credentials were supplied
func (c *Client) Configured() bool {
	return c.configured
}

// Send posts a text message to the given phone number
func (c *Client) Send(ctx context.Context, to, message string) (*SendResult, error) {
	if strings.TrimSpace(to) == "" {
		return nil, ErrMissingRecipient
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrMissingMessage
	}
	if !c.configured {
		return nil, ErrNotConfigured
	}

	phone, err := NormalizePhone(to, c.region)
	if err != nil {
		return nil, err
	}

	body := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone,
		Type:             "text",
	}
	body.Text.Body = message

	var result sendResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		ForceContentType("application/json").
		SetResult(&result).
		SetError(&apiErr).
		SetPathParam("phoneID", c.phoneNumberID).
		Post("/{phoneID}/messages")
	if err != nil {
		config.LogError(c.log, "notify", "Send", "posting message", map[string]string{"to": phone}, err)
		return nil, fmt.Errorf("sending whatsapp message: %w", err)
	}
	if resp.IsError() {
		err := fmt.Errorf("sending whatsapp message: %s", apiErr.message(resp.StatusCode()))
		config.LogError(c.log, "notify", "Send", "api rejected message", map[string]string{"to": phone}, err)
		return nil, err
	}

	out := &SendResult{To: phone}
	if len(result.Messages) > 0 {
		out.MessageID = result.Messages[0].ID
	}
	c.log.WithFields(logrus.Fields{"to": phone, "messageId": out.MessageID}).Info("whatsapp message sent")
	return out, nil
}

// Status checks the credentials by reading the sender's phone number
func (c *Client) Status(ctx context.Context) Status {
	if !c.configured {
		return Status{Status: StateNotConfigured}
	}

	var phone phoneResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("fields", "display_phone_number,verified_name").
		ForceContentType("application/json").
		SetResult(&phone).
		SetError(&apiErr).
		SetPathParam("phoneID", c.phoneNumberID).
		Get("/{phoneID}")
	if err != nil {
		return Status{Configured: true, Status: StateDisconnected, Error: err.Error()}
	}
	if resp.IsError() {
		return Status{Configured: true, Status: StateDisconnected, Error: apiErr.message(resp.StatusCode())}
	}
	return Status{
		Configured:  true,
		Connected:   true,
		Status:      StateConnected,
		PhoneNumber: phone.DisplayPhoneNumber,
	}
}
