package service

import (
	"fmt"
	"strings"

	envelopeDomain "github.com/allisson/actionserver/internal/envelope/domain"
)

// Secret wraps an already-known secret string, e.g. one sourced directly
// from an environment variable or a plain header. Its whole purpose is the
// construction-time side effect: the value is registered for output
// redaction before any action code can log it.
type Secret struct {
	value string
}

// NewSecret registers value with the redactor and returns the wrapper. The
// registry also hides the quoted form of the value, so a secret embedded in
// formatted output is scrubbed too.
func NewSecret(value string, redactor Redactor) *Secret {
	redactor.HideFromOutput(value)
	return &Secret{value: value}
}

// Value returns the wrapped secret string.
func (s *Secret) Value() string {
	return s.value
}

// ContextSecret is a typed handle for a string inside a context, addressed
// by a "/"-delimited path of JSON object keys (e.g. "secrets/my_password").
type ContextSecret struct {
	ctx  *Context
	path string
}

// Secret returns an accessor for the string at path inside the context.
// Resolution is deferred to Value, so constructing an accessor for an
// encrypted context does not trigger decryption.
func (c *Context) Secret(path string) *ContextSecret {
	return &ContextSecret{ctx: c, path: path}
}

// Value forces context resolution, walks the path, and returns the string
// leaf. Every successful call re-registers the value with the redactor;
// registration is idempotent, so repeated access is safe.
//
// Returns:
//   - ErrSecretPathNotFound if any path segment is absent
//   - ErrSecretPathType if a mid-path segment is not an object or the leaf
//     is not a string
//   - Any resolution error from Value on the underlying context
func (s *ContextSecret) Value() (string, error) {
	leaf, err := walkPath(s.ctx, s.path)
	if err != nil {
		return "", err
	}

	value, ok := leaf.(string)
	if !ok {
		return "", fmt.Errorf(
			"%w: path %q does not resolve to a string", envelopeDomain.ErrSecretPathType, s.path,
		)
	}

	s.ctx.svc.redactor.HideFromOutput(value)
	return value, nil
}

// OAuth2Secret is a typed handle for an OAuth2-shaped secret object inside a
// context: {"provider": ..., "scopes": [...], "access_token": ...}.
type OAuth2Secret struct {
	ctx  *Context
	path string
}

// OAuth2Secret returns an accessor for the OAuth2 secret object at path
// inside the context.
func (c *Context) OAuth2Secret(path string) *OAuth2Secret {
	return &OAuth2Secret{ctx: c, path: path}
}

// Provider returns the OAuth2 provider name.
func (o *OAuth2Secret) Provider() (string, error) {
	return o.stringField("provider")
}

// Scopes returns the granted OAuth2 scopes.
func (o *OAuth2Secret) Scopes() ([]string, error) {
	object, err := o.object()
	if err != nil {
		return nil, err
	}

	raw, ok := object["scopes"]
	if !ok {
		return nil, fmt.Errorf(
			"%w: path %q: missing field %q", envelopeDomain.ErrSecretPathNotFound, o.path, "scopes",
		)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf(
			"%w: path %q: field %q is not an array", envelopeDomain.ErrSecretPathType, o.path, "scopes",
		)
	}

	scopes := make([]string, 0, len(items))
	for _, item := range items {
		scope, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf(
				"%w: path %q: field %q contains a non-string element",
				envelopeDomain.ErrSecretPathType, o.path, "scopes",
			)
		}
		scopes = append(scopes, scope)
	}

	return scopes, nil
}

// AccessToken returns the OAuth2 access token, registering it for output
// redaction on every successful call.
func (o *OAuth2Secret) AccessToken() (string, error) {
	token, err := o.stringField("access_token")
	if err != nil {
		return "", err
	}

	o.ctx.svc.redactor.HideFromOutput(token)
	return token, nil
}

func (o *OAuth2Secret) object() (map[string]any, error) {
	leaf, err := walkPath(o.ctx, o.path)
	if err != nil {
		return nil, err
	}

	object, ok := leaf.(map[string]any)
	if !ok {
		return nil, fmt.Errorf(
			"%w: path %q does not resolve to an object", envelopeDomain.ErrSecretPathType, o.path,
		)
	}

	return object, nil
}

func (o *OAuth2Secret) stringField(name string) (string, error) {
	object, err := o.object()
	if err != nil {
		return "", err
	}

	raw, ok := object[name]
	if !ok {
		return "", fmt.Errorf(
			"%w: path %q: missing field %q", envelopeDomain.ErrSecretPathNotFound, o.path, name,
		)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf(
			"%w: path %q: field %q is not a string", envelopeDomain.ErrSecretPathType, o.path, name,
		)
	}

	return value, nil
}

// walkPath forces resolution of the context and descends through each
// "/"-delimited segment of path.
func walkPath(ctx *Context, path string) (any, error) {
	value, err := ctx.Value()
	if err != nil {
		return nil, err
	}

	current := any(value)
	parent := ""
	for _, segment := range strings.Split(path, "/") {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf(
				"%w: path %q: segment %q is not an object",
				envelopeDomain.ErrSecretPathType, path, parent,
			)
		}
		next, ok := object[segment]
		if !ok {
			return nil, fmt.Errorf(
				"%w: path %q: missing segment %q", envelopeDomain.ErrSecretPathNotFound, path, segment,
			)
		}
		current = next
		parent = segment
	}

	return current, nil
}
