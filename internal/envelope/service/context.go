package service

import (
	"encoding/json"
	"fmt"
	"sync"

	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
)

// ContextService constructs Contexts from raw envelope strings. It carries
// the collaborators every context needs: the keyring for key material, the
// redactor for the secret-hiding side effect, and the cipher factory.
type ContextService struct {
	keyring   Keyring
	redactor  Redactor
	newCipher CipherFactory
}

// NewContextService creates a ContextService with the production AES-256-GCM
// cipher factory.
func NewContextService(keyring Keyring, redactor Redactor) *ContextService {
	return &ContextService{
		keyring:   keyring,
		redactor:  redactor,
		newCipher: defaultCipherFactory,
	}
}

// Context is the runtime wrapper around one envelope instance.
//
// Lifecycle: the outer base64/JSON unit is decoded and classified eagerly at
// construction; failure there is a hard constructor error. A plain shell
// resolves immediately, including its secret-hiding side effect. An encrypted
// shell resolves lazily on the first Value call and memoizes the result for
// the lifetime of the instance; resolution failures are returned but never
// cached, so a later call re-attempts identically.
//
// Contexts are per-request objects. A fresh instance is constructed for every
// incoming header; nothing is shared across requests except the injected
// collaborators.
type Context struct {
	svc       *ContextService
	raw       string
	kind      envelopeDomain.Kind
	shell     map[string]any
	encrypted bool

	mu       sync.Mutex
	resolved bool
	value    map[string]any
}

// FromRaw decodes and classifies a raw envelope string. Encrypted shells stay
// sealed until the first Value call; plain shells resolve immediately.
func (s *ContextService) FromRaw(raw string, kind envelopeDomain.Kind) (*Context, error) {
	shell, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		svc:       s,
		raw:       raw,
		kind:      kind,
		shell:     shell,
		encrypted: envelopeDomain.IsEncrypted(shell),
	}
	if !ctx.encrypted {
		ctx.adopt(shell)
	}

	return ctx, nil
}

// FromRawPlain decodes a raw envelope string as a plain envelope regardless
// of its shape. Used for sources not listed in the decrypt-information
// configuration: their shell is the value as-is, even when it happens to
// carry cipher/algorithm/iv keys.
func (s *ContextService) FromRawPlain(raw string, kind envelopeDomain.Kind) (*Context, error) {
	shell, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		svc:   s,
		raw:   raw,
		kind:  kind,
		shell: shell,
	}
	ctx.adopt(shell)

	return ctx, nil
}

// FromHeader decodes a reassembled header value, honoring encryption only
// when the kind's header is listed in the decrypt-information configuration.
func (s *ContextService) FromHeader(raw string, kind envelopeDomain.Kind) (*Context, error) {
	sources, err := s.keyring.DecryptSources()
	if err != nil {
		return nil, err
	}

	header := kind.Header()
	for _, source := range sources {
		if source.MatchesHeader(header) {
			return s.FromRaw(raw, kind)
		}
	}

	return s.FromRawPlain(raw, kind)
}

// Raw returns the original base64 input, preserved for audit.
func (c *Context) Raw() string {
	return c.raw
}

// Kind returns the context variant.
func (c *Context) Kind() envelopeDomain.Kind {
	return c.kind
}

// IsEncrypted reports whether the shell was classified as encrypted at
// construction.
func (c *Context) IsEncrypted() bool {
	return c.encrypted
}

// Value returns the resolved context object, decrypting on first access.
//
// Resolution of an encrypted shell runs in a fixed order: algorithm
// validation, field decoding, key fetch, trial decryption with each
// configured key, inner JSON parse, then the kind's secret-hiding rule. The
// decoded object is exposed only after every extracted secret has been
// registered with the redactor, because callers may log it.
//
// Returns:
//   - The resolved JSON object (the same instance on every call)
//   - ErrUnsupportedAlgorithm / ErrMalformedEnvelope for shell problems
//   - ErrNoDecryptionKeys when zero keys are configured
//   - ErrDecryptionFailed when every configured key was tried without success
func (c *Context) Value() (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved {
		return c.value, nil
	}

	value, err := c.resolve()
	if err != nil {
		return nil, err
	}
	c.adopt(value)

	return c.value, nil
}

// adopt runs the kind's secret-hiding rule and memoizes the resolved value.
func (c *Context) adopt(value map[string]any) {
	for _, secret := range c.kind.SecretStrings(value) {
		c.svc.redactor.HideFromOutput(secret)
	}
	c.value = value
	c.resolved = true
}

// resolve performs the encrypted branch: parse and validate the shell, fetch
// keys, trial-decrypt, and parse the inner payload.
func (c *Context) resolve() (map[string]any, error) {
	shell, err := envelopeDomain.ParseEncryptedShell(c.shell)
	if err != nil {
		return nil, err
	}

	keys, err := c.svc.keyring.Keys()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, envelopeDomain.ErrNoDecryptionKeys
	}

	// The AEAD implementation expects the tag appended to the ciphertext.
	sealed := make([]byte, 0, len(shell.Cipher)+len(shell.AuthTag))
	sealed = append(sealed, shell.Cipher...)
	sealed = append(sealed, shell.AuthTag...)

	var plaintext []byte
	decrypted := false
	for _, key := range keys {
		aead, err := c.svc.newCipher(key)
		if err != nil {
			// A key the factory rejects counts as a failed trial.
			continue
		}
		candidate, err := aead.Decrypt(sealed, shell.IV, nil)
		if err == nil {
			plaintext = candidate
			decrypted = true
			break
		}
	}
	if !decrypted {
		// Aggregate failure only, never which key index.
		return nil, envelopeDomain.ErrDecryptionFailed
	}

	var value any
	if err := json.Unmarshal(plaintext, &value); err != nil {
		return nil, fmt.Errorf("%w: decrypted payload is not valid JSON", envelopeDomain.ErrMalformedEnvelope)
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: decrypted payload is not a JSON object", envelopeDomain.ErrMalformedEnvelope)
	}

	return object, nil
}
