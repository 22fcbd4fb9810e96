package account

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// Claims is the decoded payload of a verified bearer token.
type Claims struct {
	UserID int64
	Role   domain.Role
}

// TokenIssuer mints a bearer token for an authenticated user.
// internal/httpapi never constructs tokens itself; it only verifies
// them via TokenVerifier.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier validates a bearer token and extracts its claims. The
// spec treats token issuance as out-of-scope external infrastructure;
// this interface is the seam a real OAuth/JWT provider would sit
// behind in production.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type tokenPayload struct {
	Sub int64  `json:"sub"`
	Role string `json:"role"`
	Exp  int64  `json:"exp"`
}

// HMACTokenizer issues and verifies HMAC-SHA256-signed bearer tokens.
// It is a minimal stand-in for the session/token subsystem the spec
// treats as external configuration (secret_key, access_token_expire_minutes),
// not a production-grade OAuth/JWT implementation.
type HMACTokenizer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACTokenizer constructs a HMACTokenizer. Tokens it issues expire
// after ttl.
func NewHMACTokenizer(secret string, ttl time.Duration) *HMACTokenizer {
	return &HMACTokenizer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token carrying the user's id and role.
func (t *HMACTokenizer) Issue(user *domain.User) (string, error) {
	payload := tokenPayload{
		Sub:  user.ID,
		Role: string(user.Role),
		Exp:  t.now().Add(t.ttl).Unix(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(body)
	sig := t.sign(encoded)
	return encoded + "." + sig, nil
}

// Verify checks the signature and expiry of token and returns its
// claims. Every failure mode (malformed shape, bad signature, expiry)
// collapses to domain.ErrAuthInvalid, since a caller only needs to
// know whether the token is usable.
func (t *HMACTokenizer) Verify(token string) (*Claims, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, domain.ErrAuthInvalid
	}
	encoded, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(t.sign(encoded)), []byte(sig)) {
		return nil, domain.ErrAuthInvalid
	}
	body, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.ErrAuthInvalid
	}
	var payload tokenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.ErrAuthInvalid
	}
	if t.now().Unix() > payload.Exp {
		return nil, domain.ErrAuthInvalid
	}
	return &Claims{UserID: payload.Sub, Role: domain.Role(payload.Role)}, nil
}

func (t *HMACTokenizer) sign(encoded string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
