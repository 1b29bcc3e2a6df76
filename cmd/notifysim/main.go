// notifysim sends a signed payment notification to a running storefront service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/storefront-service/internal/adapter/stripe"
)

type options struct {
	url       string
	secret    string
	file      string
	sessionID string
	eventType string
	email     string
	name      string
	amount    int64
	items     []string
	timeout   time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "notifysim",
		Short: "Send a signed payment notification to the webhook endpoint",
		Long: `Builds a checkout.session.completed notification (or reads one from --file, "-" for stdin),
signs it with the webhook secret and POSTs it to the service.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := o.body(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()
			status, resp, err := send(ctx, http.DefaultClient, o.url, o.secret, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", status, bytes.TrimSpace(resp))
			if status >= 300 {
				return fmt.Errorf("webhook answered %d", status)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.url, "url", "http://localhost:8000/api/v1/webhook", "webhook endpoint")
	f.StringVar(&o.secret, "secret", os.Getenv("STRIPE_WEBHOOK_SECRET"), "webhook secret; empty sends an unsigned request")
	f.StringVar(&o.file, "file", "", `notification JSON to send ("-" reads stdin)`)
	f.StringVar(&o.sessionID, "session", "", "checkout session id (default: generated)")
	f.StringVar(&o.eventType, "type", "checkout.session.completed", "notification type")
	f.StringVar(&o.email, "email", "buyer@example.com", "customer email")
	f.StringVar(&o.name, "name", "Test Buyer", "customer name")
	f.Int64Var(&o.amount, "amount", 129900, "amount_total in minor units")
	f.StringSliceVar(&o.items, "item", []string{"iPhone 15 Pro x1 - 1299.00 EUR"}, "item summary line (repeatable)")
	f.DurationVar(&o.timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func (o *options) body(stdin io.Reader) ([]byte, error) {
	switch o.file {
	case "":
		return o.sample()
	case "-":
		return io.ReadAll(stdin)
	default:
		return os.ReadFile(o.file)
	}
}

func (o *options) sample() ([]byte, error) {
	id := o.sessionID
	if id == "" {
		id = fmt.Sprintf("cs_sim_%d", time.Now().UnixNano())
	}
	items, err := json.Marshal(o.items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{
		"id":     "evt_" + id,
		"object": "event",
		"type":   o.eventType,
		"data": map[string]any{"object": map[string]any{
			"id":           id,
			"object":       "checkout.session",
			"amount_total": o.amount,
			"currency":     "eur",
			"customer_details": map[string]any{
				"email": o.email,
				"name":  o.name,
			},
			"metadata": map[string]string{"items": string(items)},
		}},
	})
}

func send(ctx context.Context, client *http.Client, url, secret string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(stripe.SignatureHeader, stripe.SignPayload(body, secret, time.Now()))
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	return resp.StatusCode, out, err
}
