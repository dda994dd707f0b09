package secret

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/rshade/scout/internal/logging"
)

// Source identifies the backend that produced a credential.
type Source string

// Known sources, in precedence order.
const (
	SourceOnePassword Source = "1password"
	SourceBitwarden   Source = "bitwarden"
	SourceKeePassXC   Source = "keepassxc"
)

// DisplayName returns the product name of the backend.
func (s Source) DisplayName() string {
	switch s {
	case SourceOnePassword:
		return "1Password"
	case SourceBitwarden:
		return "Bitwarden"
	case SourceKeePassXC:
		return "KeePassXC"
	default:
		return string(s)
	}
}

// Credential is the resolved API key. Its value lives in an encrypted memguard
// enclave and is decrypted only by Value. Every formatting path is redacted.
type Credential struct {
	source Source

	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewCredential seals value into an enclave. value is wiped by memguard.
func NewCredential(source Source, value []byte) *Credential {
	return &Credential{
		source:  source,
		enclave: memguard.NewEnclave(value),
	}
}

// Source returns the backend that produced the credential.
func (c *Credential) Source() Source {
	return c.source
}

// Value decrypts and returns the key.
func (c *Credential) Value() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.destroyed || c.enclave == nil {
		return "", ErrCredentialDestroyed
	}
	locked, err := c.enclave.Open()
	if err != nil {
		return "", fmt.Errorf("opening credential enclave: %w", err)
	}
	defer locked.Destroy()

	return string(locked.Bytes()), nil
}

// Destroy drops the enclave. Safe to call more than once.
func (c *Credential) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.destroyed = true
	c.enclave = nil
}

// String implements fmt.Stringer.
func (c *Credential) String() string {
	return fmt.Sprintf("Credential(%s, %s)", c.source, logging.Redacted)
}

// GoString implements fmt.GoStringer.
func (c *Credential) GoString() string {
	return c.String()
}

// Format makes every fmt verb print the redacted form.
func (c *Credential) Format(f fmt.State, _ rune) {
	_, _ = fmt.Fprint(f, c.String())
}

// MarshalJSON never emits the key.
func (c *Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"source": string(c.source),
		"value":  logging.Redacted,
	})
}
