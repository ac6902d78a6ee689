package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"libreria-be/internal/logger"

	"go.uber.org/zap"
)

// SignatureVerifier authenticates inbound Mercado Pago webhooks. The gateway
// signs each delivery with an HMAC-SHA256 over a canonical manifest built
// from the x-request-id header, the request path and the ts value carried
// inside the x-signature header.
type SignatureVerifier struct {
	secret string
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	if secret == "" {
		logger.L().Warn("webhook signature verification is DISABLED (no MP_WEBHOOK_SECRET); development only")
	}
	return &SignatureVerifier{secret: secret}
}

// Verify recomputes the HMAC for the request and compares it against the
// delivered v1 digest. Any missing header, unparseable signature or mismatch
// rejects the request; the caller must answer non-2xx and must not process
// the payload.
func (v *SignatureVerifier) Verify(r *http.Request) error {
	if v.secret == "" {
		// Explicit opt-out, logged at construction time.
		return nil
	}

	sig := r.Header.Get("x-signature")
	requestID := r.Header.Get("x-request-id")
	if sig == "" || requestID == "" {
		return ErrMissingSignature
	}

	ts, delivered, err := parseSignatureHeader(sig)
	if err != nil {
		return err
	}

	manifest := fmt.Sprintf("id:%s;request-url:%s;ts:%s;", requestID, r.URL.Path, ts)

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(manifest))
	expected := mac.Sum(nil)

	deliveredBytes, err := hex.DecodeString(delivered)
	if err != nil {
		return ErrMalformedSignature
	}

	if !hmac.Equal(expected, deliveredBytes) {
		logger.L().Warn("webhook signature mismatch",
			zap.String("request_id", requestID),
			zap.String("ts", ts),
		)
		return ErrInvalidSignature
	}

	return nil
}

// parseSignatureHeader splits the comma-separated key=value pairs of the
// x-signature header. At least ts and v1 must be present.
func parseSignatureHeader(header string) (ts string, v1 string, err error) {
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.TrimSpace(kv[0]) {
		case "ts":
			ts = strings.TrimSpace(kv[1])
		case "v1":
			v1 = strings.TrimSpace(kv[1])
		}
	}

	if ts == "" || v1 == "" {
		return "", "", ErrMalformedSignature
	}
	return ts, v1, nil
}
