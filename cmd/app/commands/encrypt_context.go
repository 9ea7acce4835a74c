package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	cryptoDomain "github.com/allisson/actionserver/internal/crypto/domain"
	envelopeService "github.com/allisson/actionserver/internal/envelope/service"
)

// RunEncryptContext builds an action-context envelope from a JSON payload
// file and prints it, for feeding test requests or action environments.
// The payload must be a top-level JSON object. With plain=true the envelope
// is unencrypted; otherwise encodedKey must be a base64-encoded 32-byte AES
// key, matching the generate-decrypt-key output.
//
// A payload path of "-" reads from the reader instead of a file.
func RunEncryptContext(reader io.Reader, writer io.Writer, payloadPath, encodedKey string, plain bool) error {
	if payloadPath == "" {
		return fmt.Errorf("--file is required")
	}

	var payload []byte
	var err error
	if payloadPath == "-" {
		payload, err = io.ReadAll(reader)
	} else {
		payload, err = os.ReadFile(payloadPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	var value map[string]any
	if err := json.Unmarshal(payload, &value); err != nil {
		return fmt.Errorf("payload must be a JSON object: %w", err)
	}
	if value == nil {
		return fmt.Errorf("payload must be a JSON object")
	}

	if plain {
		envelope, err := envelopeService.EncodePlain(value)
		if err != nil {
			return fmt.Errorf("failed to encode context: %w", err)
		}
		fmt.Fprintln(writer, envelope)
		return nil
	}

	if encodedKey == "" {
		return fmt.Errorf("--key is required unless --plain is set")
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return fmt.Errorf("key is not valid base64")
	}
	defer cryptoDomain.Zero(key)
	if len(key) != cryptoDomain.KeySize {
		return fmt.Errorf("key must decode to %d bytes, got %d", cryptoDomain.KeySize, len(key))
	}

	envelope, err := envelopeService.EncodeEncrypted(key, value)
	if err != nil {
		return fmt.Errorf("failed to encrypt context: %w", err)
	}

	fmt.Fprintln(writer, envelope)
	return nil
}
