// Package jwt implements [bot.TokenDecoder] with golang-jwt.
package jwt

import (
	"strings"

	"github.com/botkit/bot"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for input that is not a decodable JWT. It
// matches bot.ErrValidation.
var ErrInvalidToken error = invalidToken{}

type invalidToken struct{}

func (invalidToken) Error() string { return "Invalid JWT token" }

func (invalidToken) Is(target error) bool { return target == bot.ErrValidation }

// Interface compliance check.
var _ bot.TokenDecoder = Decoder{}

// Decoder parses tokens without verifying their signature.
type Decoder struct{}

// Decode returns the token's header and claims.
func (Decoder) Decode(token string) (bot.DecodedToken, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return bot.DecodedToken{}, ErrInvalidToken
	}
	claims := gojwt.MapClaims{}
	parsed, _, err := gojwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return bot.DecodedToken{}, ErrInvalidToken
	}
	return bot.DecodedToken{
		Header:  parsed.Header,
		Payload: map[string]any(claims),
		Message: "JWT decoded successfully",
	}, nil
}
