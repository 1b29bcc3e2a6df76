package stripe

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"
)

// SignatureHeader is the request header carrying the provider signature.
const SignatureHeader = "Stripe-Signature"

// SignPayload builds a signature header value for body, as the provider would send it.
func SignPayload(body []byte, secret string, at time.Time) string {
	sig := webhook.ComputeSignature(at, body, secret)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(sig))
}
