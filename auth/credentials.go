package auth

import (
	"fmt"
	"unicode"
)

// Credential format limits.
const (
	MaxClientIDLength     = 256
	MaxClientSecretLength = 512
)

// Credentials is an OAuth2 client-credentials identity.
//
// String never reveals ClientSecret.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// String returns the client id with the secret masked.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{ClientID: %q, ClientSecret: [REDACTED]}", c.ClientID)
}

// GoString masks the secret for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

// ValidateCredentials checks the format of c without any network use.
func ValidateCredentials(c Credentials) error {
	if err := validateCredentialField("client id", c.ClientID, MaxClientIDLength); err != nil {
		return err
	}
	return validateCredentialField("client secret", c.ClientSecret, MaxClientSecretLength)
}

func validateCredentialField(name, value string, maxLen int) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidCredentials, name)
	}
	if len(value) > maxLen {
		return fmt.Errorf("%w: %s must not exceed %d characters", ErrInvalidCredentials, name, maxLen)
	}
	for _, r := range value {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w: %s has invalid format", ErrInvalidCredentials, name)
		}
	}
	return nil
}
