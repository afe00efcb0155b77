package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  map[string]error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	for _, msg := range m {
		if to := msg.GetHeader("To"); len(to) > 0 {
			if err := f.err[to[0]]; err != nil {
				return err
			}
		}
		f.sent = append(f.sent, msg)
	}
	return nil
}

func TestMultiNotifier_JoinsErrors(t *testing.T) {
	first := errors.New("first")
	var called int
	m := MultiNotifier{
		NotifierFunc(func(context.Context, Notification) error { called++; return first }),
		nil,
		NotifierFunc(func(context.Context, Notification) error { called++; return nil }),
		NotifierFunc(func(context.Context, Notification) error { called++; return errSendFailed }),
	}
	err := m.Notify(context.Background(), Notification{Text: "hi"})
	assert.Equal(t, 3, called)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, errSendFailed)

	assert.ErrorIs(t, MultiNotifier{}.Notify(context.Background(), Notification{}), ErrNotDelivered)
}

func TestMultiNotifier_NothingDelivered(t *testing.T) {
	skip := NotifierFunc(func(context.Context, Notification) error { return ErrNotDelivered })
	ok := NotifierFunc(func(context.Context, Notification) error { return nil })

	err := MultiNotifier{skip, skip}.Notify(context.Background(), Notification{Text: "hi"})
	assert.ErrorIs(t, err, ErrNotDelivered)

	assert.NoError(t, MultiNotifier{skip, ok}.Notify(context.Background(), Notification{Text: "hi"}))

	// a real failure wins over a skipped channel
	err = MultiNotifier{skip, NotifierFunc(func(context.Context, Notification) error { return errSendFailed })}.
		Notify(context.Background(), Notification{Text: "hi"})
	assert.ErrorIs(t, err, errSendFailed)
	assert.NotErrorIs(t, err, ErrNotDelivered)
}

func TestMultiNotifier_UnconfiguredChannels(t *testing.T) {
	email := &EmailService{sender: &fakeSender{}, from: "noreply@example.com"}
	wa := NewWhatsAppService("", "", false)
	n := Notification{Subject: "s", Text: "t", Phones: []string{"+97150"}}

	assert.ErrorIs(t, MultiNotifier{email, wa}.Notify(context.Background(), n), ErrNotDelivered)
}

func TestEmailService_SendsPerRecipient(t *testing.T) {
	bad := errors.New("mailbox unavailable")
	sender := &fakeSender{err: map[string]error{"bad@example.com": bad}}
	s := &EmailService{sender: sender, from: "noreply@example.com"}

	err := s.Notify(context.Background(), Notification{
		Subject: "Digest",
		Text:    "body",
		HTML:    "<p>body</p>",
		Emails:  []string{"a@example.com", "", "bad@example.com", "b@example.com"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, bad)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, []string{"Digest"}, sender.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"b@example.com"}, sender.sent[1].GetHeader("To"))
}

func TestEmailService_DryRunAndNoRecipients(t *testing.T) {
	sender := &fakeSender{}
	s := &EmailService{sender: sender, from: "noreply@example.com", dryRun: true}

	require.NoError(t, s.Notify(context.Background(), Notification{Emails: []string{"a@example.com"}}))
	assert.ErrorIs(t, s.Notify(context.Background(), Notification{Phones: []string{"+971"}}), ErrNotDelivered)
	assert.ErrorIs(t, s.Notify(context.Background(), Notification{Emails: []string{" "}}), ErrNotDelivered)
	assert.Empty(t, sender.sent)
}

func TestWhatsAppService_PostsToGateway(t *testing.T) {
	var got []waSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/send", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req waSendRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)
		if req.Phone == "+971000" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success":false,"error":"not on whatsapp"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	wa := NewWhatsAppService(srv.URL+"/", "secret", false)
	err := wa.Notify(context.Background(), Notification{
		Text:   "3 pending tasks",
		Phones: []string{"+971 50 123 4567", "+971000"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not on whatsapp")
	require.Len(t, got, 2)
	assert.Equal(t, "+971501234567", got[0].Phone)
	assert.Equal(t, "3 pending tasks", got[0].Message)
}

func TestWhatsAppService_DryRunSkipsHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	wa := NewWhatsAppService(srv.URL, "", true)
	assert.NoError(t, wa.Notify(context.Background(), Notification{Text: "x", Phones: []string{"+97150"}}))
}

func TestWhatsAppService_NotConfigured(t *testing.T) {
	wa := NewWhatsAppService("", "", false)
	assert.ErrorIs(t, wa.Notify(context.Background(), Notification{Text: "x", Phones: []string{"+97150"}}), ErrNotDelivered)

	var nilWA *WhatsAppService
	assert.ErrorIs(t, nilWA.SendMessage(context.Background(), "+97150", "x"), ErrNotDelivered)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()
	wa = NewWhatsAppService(srv.URL, "", false)
	assert.ErrorIs(t, wa.Notify(context.Background(), Notification{Text: "x"}), ErrNotDelivered)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+971501234567", normalizePhone(" +971 (50) 123-4567 "))
	assert.Equal(t, "971501234567", normalizePhone("971-50-123-4567"))
	assert.Equal(t, "", normalizePhone(" "))
}
