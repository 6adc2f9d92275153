package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/robabby/sacred-geometry-sub000/internal/domain"
	pkgerrors "github.com/robabby/sacred-geometry-sub000/pkg/errors"
)

// SignatureHeader is the header Stripe signs webhook deliveries with.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds how stale a signed timestamp may be. Replays older
// than this are rejected even with a valid MAC.
const DefaultTolerance = 5 * time.Minute

// WebhookVerifier validates Stripe-Signature headers against the endpoint's
// shared secret. The scheme: header carries "t=<unix>,v1=<hex hmac>", where
// the MAC is HMAC-SHA256 over "<t>.<raw body>". The raw body must be passed
// in untouched; parsing before verifying voids the check.
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// NewWebhookVerifier creates a verifier for the given endpoint secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    secret,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// VerifyAndParse checks the signature over the raw body and, only if it
// verifies, parses the event envelope.
func (v *WebhookVerifier) VerifyAndParse(body []byte, header string) (*domain.WebhookEvent, error) {
	if strings.TrimSpace(header) == "" {
		return nil, &pkgerrors.ErrSignature{Code: domain.CodeSignatureMissing, Reason: "missing signature header"}
	}

	timestamp, candidates, err := parseSignatureHeader(header)
	if err != nil {
		return nil, &pkgerrors.ErrSignature{Code: domain.CodeSignatureInvalid, Reason: err.Error()}
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return nil, &pkgerrors.ErrSignature{Code: domain.CodeSignatureInvalid, Reason: "timestamp outside tolerance"}
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := mac.Sum(nil)

	verified := false
	for _, candidate := range candidates {
		sig, decodeErr := hex.DecodeString(candidate)
		if decodeErr != nil {
			continue
		}
		// constant-time compare
		if hmac.Equal(expected, sig) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, &pkgerrors.ErrSignature{Code: domain.CodeSignatureInvalid, Reason: "no matching v1 signature"}
	}

	var event domain.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// parseSignatureHeader splits "t=1614556800,v1=abc,v1=def" into the timestamp
// and the list of v1 signature candidates.
func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, err
			}
			timestamp = ts
		case "v1":
			candidates = append(candidates, kv[1])
		}
	}
	if timestamp < 0 {
		return 0, nil, errMissingTimestamp
	}
	if len(candidates) == 0 {
		return 0, nil, errMissingSignature
	}
	return timestamp, candidates, nil
}

var (
	errMissingTimestamp = &headerError{"signature header has no timestamp"}
	errMissingSignature = &headerError{"signature header has no v1 signature"}
)

type headerError struct{ msg string }

func (e *headerError) Error() string { return e.msg }
