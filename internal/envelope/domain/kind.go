package domain

// Kind identifies which of the three context variants an envelope carries.
// Each kind has a fixed header name and its own secret-extraction rule, run
// by the resolver the moment the decoded value becomes available and before
// the value is exposed to any caller.
type Kind string

const (
	// KindAction carries action secrets and invocation context
	// (header x-action-context).
	KindAction Kind = "action"

	// KindData carries data-server connection secrets
	// (header x-data-context).
	KindData Kind = "data"

	// KindInvocation carries invocation metadata
	// (header x-action-invocation-context, unencrypted in current usage).
	KindInvocation Kind = "invocation"
)

// Kinds returns every context kind, in the order request headers are probed.
func Kinds() []Kind {
	return []Kind{KindAction, KindData, KindInvocation}
}

// Header returns the primary HTTP header name for the kind. Continuation
// segments use the same name with -1, -2, ... suffixes.
func (k Kind) Header() string {
	switch k {
	case KindAction:
		return "x-action-context"
	case KindData:
		return "x-data-context"
	case KindInvocation:
		return "x-action-invocation-context"
	default:
		return ""
	}
}

// EnvVar returns the environment variable name that carries the kind's raw
// envelope when contexts travel by environment instead of headers, e.g. into
// an action child process.
func (k Kind) EnvVar() string {
	switch k {
	case KindAction:
		return "ACTION_CONTEXT"
	case KindData:
		return "DATA_CONTEXT"
	case KindInvocation:
		return "ACTION_INVOCATION_CONTEXT"
	default:
		return ""
	}
}

// SecretStrings extracts the strings that must be registered for output
// redaction from a resolved context value.
//
// Extraction rules per kind:
//   - action: every string nested anywhere under the top-level "secrets"
//     object (covers plain name->value maps and OAuth2-shaped objects alike)
//   - data: the string at data-server.password
//   - invocation: nothing
//
// Values that do not match the expected shape are skipped, never an error:
// redaction is a side effect of resolution, not a validation pass.
func (k Kind) SecretStrings(value map[string]any) []string {
	switch k {
	case KindAction:
		secrets, ok := value["secrets"]
		if !ok {
			return nil
		}
		return collectStrings(secrets, nil)
	case KindData:
		dataServer, ok := value["data-server"].(map[string]any)
		if !ok {
			return nil
		}
		password, ok := dataServer["password"].(string)
		if !ok {
			return nil
		}
		return []string{password}
	default:
		return nil
	}
}

// collectStrings walks a decoded JSON subtree and appends every string leaf.
func collectStrings(v any, out []string) []string {
	switch t := v.(type) {
	case string:
		out = append(out, t)
	case map[string]any:
		for _, child := range t {
			out = collectStrings(child, out)
		}
	case []any:
		for _, child := range t {
			out = collectStrings(child, out)
		}
	}
	return out
}
