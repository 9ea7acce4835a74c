package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/allisson/actionserver/internal/crypto/service"
	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
	apperrors "github.com/allisson/actionserver/internal/errors"
)

type stubKeyring struct {
	keys      [][]byte
	sources   []envelopeDomain.Source
	keysErr   error
	keysCalls int
}

func (s *stubKeyring) Keys() ([][]byte, error) {
	s.keysCalls++
	if s.keysErr != nil {
		return nil, s.keysErr
	}
	return s.keys, nil
}

func (s *stubKeyring) DecryptSources() ([]envelopeDomain.Source, error) {
	return s.sources, nil
}

type spyRedactor struct {
	mu     sync.Mutex
	hidden []string
}

func (s *spyRedactor) HideFromOutput(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden = append(s.hidden, value)
}

func (s *spyRedactor) count(value string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, hidden := range s.hidden {
		if hidden == value {
			n++
		}
	}
	return n
}

// countingCipherFactory wraps the production AES-GCM cipher and counts
// constructions and decrypt calls.
type countingCipherFactory struct {
	constructions int
	decrypts      int
}

func (f *countingCipherFactory) new(key []byte) (cryptoService.AEAD, error) {
	f.constructions++
	inner, err := cryptoService.NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	return &countingAEAD{factory: f, inner: inner}, nil
}

type countingAEAD struct {
	factory *countingCipherFactory
	inner   cryptoService.AEAD
}

func (c *countingAEAD) Encrypt(plaintext, aad []byte) ([]byte, []byte, error) {
	return c.inner.Encrypt(plaintext, aad)
}

func (c *countingAEAD) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	c.factory.decrypts++
	return c.inner.Decrypt(ciphertext, nonce, aad)
}

// sealEnvelope builds an encrypted envelope directly on the standard library,
// independent of EncodeEncrypted, so end-to-end tests exercise the wire
// format itself.
func sealEnvelope(t *testing.T, key, plaintext []byte) string {
	t.Helper()

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)

	iv := make([]byte, 12)
	_, err = rand.Read(iv)
	require.NoError(t, err)

	sealed := aead.Seal(nil, iv, plaintext, nil)
	tagStart := len(sealed) - 16

	shell := map[string]any{
		"cipher":    base64.StdEncoding.EncodeToString(sealed[:tagStart]),
		"algorithm": "aes256-gcm",
		"iv":        base64.StdEncoding.EncodeToString(iv),
		"auth-tag":  base64.StdEncoding.EncodeToString(sealed[tagStart:]),
	}
	payload, err := json.Marshal(shell)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(payload)
}

// tamperField flips one bit inside a base64 field of an encoded envelope and
// re-encodes it.
func tamperField(t *testing.T, raw, field string) string {
	t.Helper()

	shell, err := Decode(raw)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(shell[field].(string))
	require.NoError(t, err)
	decoded[0] ^= 0x01
	shell[field] = base64.StdEncoding.EncodeToString(decoded)

	payload, err := json.Marshal(shell)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(payload)
}

func TestContext_RoundTrip(t *testing.T) {
	key := randomKey(t)
	value := map[string]any{
		"secrets": map[string]any{"api_key": "s3cr3t", "token": "tok-1"},
		"scope":   map[string]any{"actions": []any{"read", "write"}, "limit": float64(7)},
	}

	raw, err := EncodeEncrypted(key, value)
	require.NoError(t, err)

	svc := NewContextService(&stubKeyring{keys: [][]byte{key}}, &spyRedactor{})
	ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
	require.NoError(t, err)

	assert.True(t, ctx.IsEncrypted())
	assert.Equal(t, raw, ctx.Raw())
	assert.Equal(t, envelopeDomain.KindAction, ctx.Kind())

	resolved, err := ctx.Value()
	require.NoError(t, err)
	assert.Equal(t, value, resolved)
}

func TestContext_TamperDetection(t *testing.T) {
	key := randomKey(t)
	raw, err := EncodeEncrypted(key, map[string]any{"secrets": map[string]any{"x": "y"}})
	require.NoError(t, err)

	for _, field := range []string{"cipher", "auth-tag", "iv"} {
		t.Run("single bit flipped in "+field, func(t *testing.T) {
			svc := NewContextService(&stubKeyring{keys: [][]byte{key}}, &spyRedactor{})
			ctx, err := svc.FromRaw(tamperField(t, raw, field), envelopeDomain.KindAction)
			require.NoError(t, err)

			_, err = ctx.Value()
			assert.ErrorIs(t, err, envelopeDomain.ErrDecryptionFailed)
		})
	}
}

func TestContext_MultiKeyTrial(t *testing.T) {
	key1 := randomKey(t)
	key2 := randomKey(t)
	value := map[string]any{"secrets": map[string]any{"x": "rotated"}}

	raw, err := EncodeEncrypted(key2, value)
	require.NoError(t, err)

	t.Run("second key in the chain decrypts", func(t *testing.T) {
		factory := &countingCipherFactory{}
		svc := NewContextService(&stubKeyring{keys: [][]byte{key1, key2}}, &spyRedactor{})
		svc.newCipher = factory.new

		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		resolved, err := ctx.Value()
		require.NoError(t, err)
		assert.Equal(t, value, resolved)
		assert.Equal(t, 2, factory.decrypts)
	})

	t.Run("behaves identically to a single-key configuration", func(t *testing.T) {
		svc := NewContextService(&stubKeyring{keys: [][]byte{key2}}, &spyRedactor{})
		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		resolved, err := ctx.Value()
		require.NoError(t, err)
		assert.Equal(t, value, resolved)
	})

	t.Run("trial stops at the first matching key", func(t *testing.T) {
		factory := &countingCipherFactory{}
		svc := NewContextService(&stubKeyring{keys: [][]byte{key2, key1}}, &spyRedactor{})
		svc.newCipher = factory.new

		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		_, err = ctx.Value()
		require.NoError(t, err)
		assert.Equal(t, 1, factory.decrypts)
	})
}

func TestContext_NoKeysConfigured(t *testing.T) {
	key := randomKey(t)
	raw, err := EncodeEncrypted(key, map[string]any{"secrets": map[string]any{"x": "y"}})
	require.NoError(t, err)

	t.Run("zero keys is an operator error", func(t *testing.T) {
		svc := NewContextService(&stubKeyring{}, &spyRedactor{})
		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		_, err = ctx.Value()
		assert.ErrorIs(t, err, envelopeDomain.ErrNoDecryptionKeys)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
		assert.NotErrorIs(t, err, envelopeDomain.ErrDecryptionFailed)
	})

	t.Run("all keys failing is a client error", func(t *testing.T) {
		svc := NewContextService(&stubKeyring{keys: [][]byte{randomKey(t), randomKey(t)}}, &spyRedactor{})
		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		_, err = ctx.Value()
		assert.ErrorIs(t, err, envelopeDomain.ErrDecryptionFailed)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.NotErrorIs(t, err, envelopeDomain.ErrNoDecryptionKeys)
	})

	t.Run("decryption failure does not name a key index", func(t *testing.T) {
		svc := NewContextService(&stubKeyring{keys: [][]byte{randomKey(t), randomKey(t)}}, &spyRedactor{})
		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		_, err = ctx.Value()
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "0")
		assert.NotContains(t, err.Error(), "1")
	})
}

func TestContext_PlainPassthrough(t *testing.T) {
	value := map[string]any{"secrets": map[string]any{"x": "y"}, "scope": map[string]any{"a": "b"}}

	raw, err := EncodePlain(value)
	require.NoError(t, err)

	factory := &countingCipherFactory{}
	keyring := &stubKeyring{keys: [][]byte{randomKey(t)}}
	svc := NewContextService(keyring, &spyRedactor{})
	svc.newCipher = factory.new

	ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
	require.NoError(t, err)
	assert.False(t, ctx.IsEncrypted())

	resolved, err := ctx.Value()
	require.NoError(t, err)
	assert.Equal(t, value, resolved)

	assert.Zero(t, factory.constructions, "plain envelopes must never touch the AEAD primitive")
	assert.Zero(t, keyring.keysCalls, "plain envelopes must never fetch key material")
}

func TestContext_MemoizedResolution(t *testing.T) {
	key := randomKey(t)
	raw, err := EncodeEncrypted(key, map[string]any{"secrets": map[string]any{"x": "y"}})
	require.NoError(t, err)

	factory := &countingCipherFactory{}
	svc := NewContextService(&stubKeyring{keys: [][]byte{key}}, &spyRedactor{})
	svc.newCipher = factory.new

	ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
	require.NoError(t, err)

	first, err := ctx.Value()
	require.NoError(t, err)
	second, err := ctx.Value()
	require.NoError(t, err)

	assert.Equal(t, 1, factory.decrypts, "repeated access must not re-decrypt")

	// Both calls return the same instance, not a re-decrypted copy.
	first["probe"] = "marker"
	assert.Equal(t, "marker", second["probe"])
}

func TestContext_RedactionSideEffect(t *testing.T) {
	t.Run("encrypted action context registers secrets on resolution", func(t *testing.T) {
		key := randomKey(t)
		raw, err := EncodeEncrypted(key, map[string]any{"secrets": map[string]any{"x": "s3cr3t"}})
		require.NoError(t, err)

		spy := &spyRedactor{}
		svc := NewContextService(&stubKeyring{keys: [][]byte{key}}, spy)
		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)
		assert.Zero(t, spy.count("s3cr3t"), "nothing to register before resolution")

		_, err = ctx.Value()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, spy.count("s3cr3t"), 1)

		_, err = ctx.Value()
		require.NoError(t, err)
		assert.Equal(t, 1, spy.count("s3cr3t"), "memoized access must not re-run secret hiding")
	})

	t.Run("plain shell registers secrets at construction", func(t *testing.T) {
		raw, err := EncodePlain(map[string]any{"secrets": map[string]any{"x": "s3cr3t"}})
		require.NoError(t, err)

		spy := &spyRedactor{}
		svc := NewContextService(&stubKeyring{}, spy)
		_, err = svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, spy.count("s3cr3t"), 1)
	})

	t.Run("data context registers the data-server password", func(t *testing.T) {
		raw, err := EncodePlain(map[string]any{"data-server": map[string]any{"password": "hunter2"}})
		require.NoError(t, err)

		spy := &spyRedactor{}
		svc := NewContextService(&stubKeyring{}, spy)
		_, err = svc.FromRaw(raw, envelopeDomain.KindData)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, spy.count("hunter2"), 1)
	})
}

func TestContext_FailuresAreNotCached(t *testing.T) {
	key := randomKey(t)
	raw, err := EncodeEncrypted(key, map[string]any{"secrets": map[string]any{"x": "y"}})
	require.NoError(t, err)

	keyring := &stubKeyring{keys: [][]byte{randomKey(t)}}
	svc := NewContextService(keyring, &spyRedactor{})
	ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
	require.NoError(t, err)

	_, err = ctx.Value()
	assert.ErrorIs(t, err, envelopeDomain.ErrDecryptionFailed)

	// Key material is re-fetched per attempt; installing the right key makes
	// the same instance resolve.
	keyring.keys = [][]byte{key}
	resolved, err := ctx.Value()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"secrets": map[string]any{"x": "y"}}, resolved)
}

func TestContext_AlgorithmRejection(t *testing.T) {
	shell := map[string]any{
		"cipher":    base64.StdEncoding.EncodeToString([]byte("irrelevant")),
		"algorithm": "aes128-cbc",
		"iv":        base64.StdEncoding.EncodeToString(make([]byte, 12)),
		"auth-tag":  base64.StdEncoding.EncodeToString(make([]byte, 16)),
	}
	raw, err := EncodePlain(shell)
	require.NoError(t, err)

	factory := &countingCipherFactory{}
	keyring := &stubKeyring{keys: [][]byte{randomKey(t)}}
	svc := NewContextService(keyring, &spyRedactor{})
	svc.newCipher = factory.new

	ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
	require.NoError(t, err)
	assert.True(t, ctx.IsEncrypted())

	_, err = ctx.Value()
	assert.ErrorIs(t, err, envelopeDomain.ErrUnsupportedAlgorithm)
	assert.Zero(t, keyring.keysCalls, "algorithm must be rejected before any key is fetched")
	assert.Zero(t, factory.constructions)
}

func TestContext_InnerPayloadMustBeObject(t *testing.T) {
	key := randomKey(t)
	svc := NewContextService(&stubKeyring{keys: [][]byte{key}}, &spyRedactor{})

	t.Run("inner JSON array", func(t *testing.T) {
		plaintext, err := json.Marshal([]string{"a", "b"})
		require.NoError(t, err)

		ctx, err := svc.FromRaw(sealEnvelope(t, key, plaintext), envelopeDomain.KindAction)
		require.NoError(t, err)

		_, err = ctx.Value()
		assert.ErrorIs(t, err, envelopeDomain.ErrMalformedEnvelope)
		assert.Contains(t, err.Error(), "object")
	})

	t.Run("inner non-JSON plaintext", func(t *testing.T) {
		ctx, err := svc.FromRaw(sealEnvelope(t, key, []byte("not json at all")), envelopeDomain.KindAction)
		require.NoError(t, err)

		_, err = ctx.Value()
		assert.ErrorIs(t, err, envelopeDomain.ErrMalformedEnvelope)
	})
}

func TestContext_MalformedOuterEnvelope(t *testing.T) {
	svc := NewContextService(&stubKeyring{}, &spyRedactor{})

	t.Run("construction fails on invalid base64", func(t *testing.T) {
		_, err := svc.FromRaw("!!!", envelopeDomain.KindAction)
		assert.ErrorIs(t, err, envelopeDomain.ErrMalformedEnvelope)
	})

	t.Run("construction fails on top-level array", func(t *testing.T) {
		raw := base64.StdEncoding.EncodeToString([]byte(`[1,2,3]`))
		_, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		assert.ErrorIs(t, err, envelopeDomain.ErrMalformedEnvelope)
	})
}

func TestContextService_FromHeader(t *testing.T) {
	key := randomKey(t)
	value := map[string]any{"secrets": map[string]any{"x": "y"}}
	raw, err := EncodeEncrypted(key, value)
	require.NoError(t, err)

	t.Run("listed header is decrypted", func(t *testing.T) {
		svc := NewContextService(&stubKeyring{
			keys:    [][]byte{key},
			sources: []envelopeDomain.Source{{Type: envelopeDomain.SourceHeader, Name: "x-action-context"}},
		}, &spyRedactor{})

		ctx, err := svc.FromHeader(raw, envelopeDomain.KindAction)
		require.NoError(t, err)
		assert.True(t, ctx.IsEncrypted())

		resolved, err := ctx.Value()
		require.NoError(t, err)
		assert.Equal(t, value, resolved)
	})

	t.Run("unlisted header is decoded as plain only", func(t *testing.T) {
		svc := NewContextService(&stubKeyring{keys: [][]byte{key}}, &spyRedactor{})

		ctx, err := svc.FromHeader(raw, envelopeDomain.KindAction)
		require.NoError(t, err)
		assert.False(t, ctx.IsEncrypted())

		// The shell itself is the value: cipher fields and all.
		resolved, err := ctx.Value()
		require.NoError(t, err)
		assert.Contains(t, resolved, "cipher")
		assert.Contains(t, resolved, "algorithm")
	})

	t.Run("header matching is case-insensitive", func(t *testing.T) {
		svc := NewContextService(&stubKeyring{
			keys:    [][]byte{key},
			sources: []envelopeDomain.Source{{Type: envelopeDomain.SourceHeader, Name: "X-Action-Context"}},
		}, &spyRedactor{})

		ctx, err := svc.FromHeader(raw, envelopeDomain.KindAction)
		require.NoError(t, err)
		assert.True(t, ctx.IsEncrypted())
	})
}

func TestContext_EndToEndVector(t *testing.T) {
	// Fixed all-zero key, test-only. The envelope is built directly on the
	// standard library and resolved through the full production path,
	// including the environment-backed keyring.
	key := make([]byte, 32)
	expected := map[string]any{"secrets": map[string]any{"private_info": "my-secret-value"}}

	plaintext, err := json.Marshal(expected)
	require.NoError(t, err)

	setEnv(t, envelopeDomain.EnvDecryptKeys, keysJSON(t, key))

	resolveOnce := func(t *testing.T) {
		t.Helper()
		raw := sealEnvelope(t, key, plaintext)

		svc := NewContextService(NewEnvKeyring(), &spyRedactor{})
		ctx, err := svc.FromRaw(raw, envelopeDomain.KindAction)
		require.NoError(t, err)

		resolved, err := ctx.Value()
		require.NoError(t, err)
		assert.Equal(t, expected, resolved)
	}

	// Two full runs: the IV is random per run and carried in the envelope,
	// so both must succeed without any IV agreement across runs.
	resolveOnce(t)
	resolveOnce(t)
}
