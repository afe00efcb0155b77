package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// WhatsAppService talks to a WhatsApp HTTP gateway:
// POST {baseURL}/api/send {"phone": "...", "message": "..."}.
type WhatsAppService struct {
	token   string
	baseURL string
	dryRun  bool
	client  *http.Client
}

func NewWhatsAppService(baseURL, token string, dryRun bool) *WhatsAppService {
	return &WhatsAppService{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		dryRun:  dryRun,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type waSendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type waResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (w *WhatsAppService) SendMessage(ctx context.Context, phone, text string) error {
	phone = normalizePhone(phone)
	if w == nil || w.baseURL == "" || phone == "" {
		log.Printf("[wa][skip] gateway or phone empty (gateway? %v phone=%q)", w != nil && w.baseURL != "", phone)
		return fmt.Errorf("whatsapp: gateway or phone missing: %w", ErrNotDelivered)
	}
	if w.dryRun {
		log.Printf("[wa][send][dry_run] phone=%s text=%q", phone, text)
		return nil
	}

	b, err := json.Marshal(waSendRequest{Phone: phone, Message: text})
	if err != nil {
		return err
	}
	url := w.baseURL + "/api/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		log.Printf("[wa][send][err] http: %v", err)
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	log.Printf("[wa][send] phone=%s http_status=%d", phone, resp.StatusCode)

	var api waResp
	if len(respBody) > 0 {
		_ = json.Unmarshal(respBody, &api)
	}
	if resp.StatusCode/100 != 2 || api.Error != "" {
		return fmt.Errorf("whatsapp send failed: status=%d error=%s", resp.StatusCode, api.Error)
	}
	return nil
}

func (w *WhatsAppService) Notify(ctx context.Context, n Notification) error {
	phones := nonEmpty(n.Phones)
	var failed []error
	sent := 0
	for _, p := range phones {
		err := w.SendMessage(ctx, p, n.Text)
		switch {
		case err == nil:
			sent++
		case errors.Is(err, ErrNotDelivered):
		default:
			failed = append(failed, &sendError{channel: "whatsapp", recipient: p, err: err})
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("whatsapp: %d of %d failed: %w", len(failed), len(phones), failed[0])
	}
	if sent == 0 {
		return fmt.Errorf("whatsapp: nothing sent to %d phone(s): %w", len(phones), ErrNotDelivered)
	}
	return nil
}

// normalizePhone keeps digits and a leading plus.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
