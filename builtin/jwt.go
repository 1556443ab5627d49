package builtin

import (
	"context"

	"github.com/botkit/bot"
)

// DecodeJWTTool returns the definition of decode_jwt.
func DecodeJWTTool() bot.Tool {
	return bot.Tool{
		Name:        "decode_jwt",
		Description: "Decode a JWT token and show its header and payload. The signature is not verified.",
		Parameters: []bot.Parameter{
			{Name: "token", Type: bot.ParamString, Description: "The JWT token to decode", Required: true},
		},
	}
}

func decodeJWT(tokens bot.TokenDecoder) bot.HandlerFunc {
	return func(_ context.Context, args bot.Args) (any, error) {
		return tokens.Decode(args.String("token", ""))
	}
}
