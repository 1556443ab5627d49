package bot

// DecodedToken is the header and payload of a JWT. The signature is not
// verified.
type DecodedToken struct {
	Header  map[string]any `json:"header"`
	Payload map[string]any `json:"payload"`
	Message string         `json:"message"`
}

// TokenDecoder decodes JWTs for inspection.
type TokenDecoder interface {
	Decode(token string) (DecodedToken, error)
}
