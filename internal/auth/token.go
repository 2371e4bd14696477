package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the fixed session lifetime baked into every token.
const SessionTTL = 24 * time.Hour

var ErrTokenMalformed = errors.New("token malformed")

// TokenHeader mirrors a JWT header, but the token is NOT a real JWT:
// the signature segment is a decorative filler, derived from no secret
// and verified by nobody. The token is a session marker whose only
// trusted content is checked against the server-side session store.
type TokenHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

type TokenClaims struct {
	Subject  string `json:"sub"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
	Expires  int64  `json:"exp"`
}

// EncodeToken builds the three-segment session token for the given user,
// valid from `now` until `now + SessionTTL`.
func EncodeToken(user *AdminUser, now time.Time) (string, error) {
	headerJson, err := json.Marshal(TokenHeader{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", fmt.Errorf("marshal token header: %w", err)
	}

	claims := TokenClaims{
		Subject:  user.ID,
		Username: user.Username,
		Role:     user.Role,
		IssuedAt: now.Unix(),
		Expires:  now.Add(SessionTTL).Unix(),
	}
	claimsJson, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal token claims: %w", err)
	}

	signature := fmt.Sprintf("signature-%s-%s", user.ID, uuid.NewString())

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(headerJson),
		base64.StdEncoding.EncodeToString(claimsJson),
		base64.StdEncoding.EncodeToString([]byte(signature)),
	}, "."), nil
}

// DecodeToken parses the token structure and returns its claims. Any
// structural problem yields ErrTokenMalformed, the signature segment is
// not inspected.
func DecodeToken(token string) (*TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrTokenMalformed, len(parts))
	}

	headerJson, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decode header: %s", ErrTokenMalformed, err)
	}
	var header TokenHeader
	if err := json.Unmarshal(headerJson, &header); err != nil {
		return nil, fmt.Errorf("%w: unmarshal header: %s", ErrTokenMalformed, err)
	}

	claimsJson, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode claims: %s", ErrTokenMalformed, err)
	}
	var claims TokenClaims
	if err := json.Unmarshal(claimsJson, &claims); err != nil {
		return nil, fmt.Errorf("%w: unmarshal claims: %s", ErrTokenMalformed, err)
	}

	if claims.Subject == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: subject or username missing", ErrTokenMalformed)
	}
	if claims.Expires == 0 {
		return nil, fmt.Errorf("%w: expiry missing", ErrTokenMalformed)
	}

	return &claims, nil
}
