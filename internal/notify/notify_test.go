package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datsun80zx/repairtrack/internal/jobs"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"Should add 91 to a ten digit mobile", "9876543210", "919876543210"},
		{"Should strip spaces and dashes", "98765-43210", "919876543210"},
		{"Should keep an explicit country code", "+91 98765 43210", "919876543210"},
		{"Should read twelve digits as international", "919876543210", "919876543210"},
		{"Should drop the trunk prefix", "09876543210", "919876543210"},
		{"Should accept the 00 international prefix", "00919876543210", "919876543210"},
		{"Should keep foreign numbers", "+44 20 7946 0958", "442079460958"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.raw, "IN")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("Should reject input without digits", func(t *testing.T) {
		_, err := NormalizePhone("n/a", "IN")
		assert.Error(t, err)
	})

	t.Run("Should default the region to IN", func(t *testing.T) {
		got, err := NormalizePhone("9876543210", "")
		require.NoError(t, err)
		assert.Equal(t, "919876543210", got)
	})
}

func TestFormatJobMessage(t *testing.T) {
	job := jobs.Job{
		Date:            "2024-03-15",
		CustomerName:    "Ravi",
		DeviceModel:     "Samsung 55",
		WorkDescription: "Panel replaced",
		Price:           decimal.NewFromInt(1500),
	}

	t.Run("Should render the default template", func(t *testing.T) {
		msg, err := FormatJobMessage("", job)
		require.NoError(t, err)
		assert.Contains(t, msg, "Hello Ravi, your Samsung 55 is ready.")
		assert.Contains(t, msg, "Amount: ₹1,500.00")
		assert.Contains(t, msg, "Date: 2024-03-15")
	})

	t.Run("Should render a custom template", func(t *testing.T) {
		msg, err := FormatJobMessage("{{upper .CustomerName}} owes {{money .Price}} ({{.Day}})", jobs.Job{CustomerName: "asha", Price: decimal.NewFromInt(20)})
		require.NoError(t, err)
		assert.Equal(t, "ASHA owes 20.00 (N/A)", msg)
	})

	t.Run("Should fail on a broken template", func(t *testing.T) {
		_, err := FormatJobMessage("{{.CustomerName", job)
		assert.Error(t, err)
	})

	t.Run("Should fail on an unknown field", func(t *testing.T) {
		_, err := FormatJobMessage("{{.Colour}}", job)
		assert.Error(t, err)
	})
}

func newClient(t *testing.T, url string) *Client {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return New(Options{
		APIURL:        url,
		PhoneNumberID: "12345",
		AccessToken:   "secret",
		Logger:        logger,
	})
}

func TestClient_Send(t *testing.T) {
	t.Run("Should post a text message to the normalized number", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/12345/messages", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"messaging_product":"whatsapp","messages":[{"id":"wamid.1"}]}`)
		}))
		defer srv.Close()

		res, err := newClient(t, srv.URL).Send(context.Background(), "98765 43210", "Your TV is ready")
		require.NoError(t, err)
		assert.Equal(t, "919876543210", res.To)
		assert.Equal(t, "wamid.1", res.MessageID)

		assert.Equal(t, "whatsapp", got["messaging_product"])
		assert.Equal(t, "919876543210", got["to"])
		assert.Equal(t, "text", got["type"])
		assert.Equal(t, "Your TV is ready", got["text"].(map[string]any)["body"])
	})

	t.Run("Should reject an empty recipient or message", func(t *testing.T) {
		c := newClient(t, "http://unused.invalid")
		_, err := c.Send(context.Background(), " ", "hi")
		assert.ErrorIs(t, err, ErrMissingRecipient)

		_, err = c.Send(context.Background(), "9876543210", "")
		assert.ErrorIs(t, err, ErrMissingMessage)
	})

	t.Run("Should refuse to send without credentials", func(t *testing.T) {
		c := New(Options{APIURL: "http://unused.invalid"})
		assert.False(t, c.Configured())
		_, err := c.Send(context.Background(), "9876543210", "hi")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("Should surface the api error message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190}}`)
		}))
		defer srv.Close()

		_, err := newClient(t, srv.URL).Send(context.Background(), "9876543210", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid OAuth access token.")
	})
}

func TestClient_Status(t *testing.T) {
	t.Run("Should report not configured", func(t *testing.T) {
		st := New(Options{}).Status(context.Background())
		assert.False(t, st.Configured)
		assert.Equal(t, StateNotConfigured, st.Status)
	})

	t.Run("Should report connected with the display number", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/12345", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"display_phone_number":"+91 98765 43210","verified_name":"Shop"}`)
		}))
		defer srv.Close()

		st := newClient(t, srv.URL).Status(context.Background())
		assert.True(t, st.Connected)
		assert.Equal(t, StateConnected, st.Status)
		assert.Equal(t, "+91 98765 43210", st.PhoneNumber)
	})

	t.Run("Should report disconnected when the api refuses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		st := newClient(t, srv.URL).Status(context.Background())
		assert.True(t, st.Configured)
		assert.False(t, st.Connected)
		assert.Equal(t, StateDisconnected, st.Status)
	})
}
