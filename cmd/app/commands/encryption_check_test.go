package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	cryptoService "github.com/allisson/onetime/internal/crypto/service"
)

func newTestCipher(t *testing.T) cryptoService.SecretCipher {
	t.Helper()
	return cryptoService.NewSecretCipher(cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
}

func TestRunEncryptionCheck(t *testing.T) {
	t.Run("text-output-with-global-secret", func(t *testing.T) {
		cipher := newTestCipher(t)
		keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("test-global-secret"))

		var out bytes.Buffer
		err := RunEncryptionCheck(&out, cipher, keystore, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Algorithm:")
		require.Contains(t, out.String(), "Global secret present:    true")
		require.Contains(t, out.String(), "Round trip:               true")
		require.Contains(t, out.String(), "Fallback recovers:        false")
	})

	t.Run("fallback-recovers-when-allowed", func(t *testing.T) {
		cipher := newTestCipher(t)
		keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("test-global-secret"))

		var out bytes.Buffer
		err := RunEncryptionCheck(&out, cipher, keystore, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Fallback recovers:        true")
	})

	t.Run("nil-global-secret", func(t *testing.T) {
		cipher := newTestCipher(t)
		keystore := cryptoDomain.NewKeystore(cryptoDomain.NilGlobalSecret())

		var out bytes.Buffer
		err := RunEncryptionCheck(&out, cipher, keystore, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Global secret present:    false")
		require.Contains(t, out.String(), "Round trip:               true")
		require.Contains(t, out.String(), "Fallback recovers:        true")
	})

	t.Run("json-output", func(t *testing.T) {
		cipher := newTestCipher(t)
		keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("test-global-secret"))

		var out bytes.Buffer
		err := RunEncryptionCheck(&out, cipher, keystore, false, "json")

		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, string(cryptoDomain.AESGCM), result["algorithm"])
		require.Equal(t, true, result["global_secret_present"])
		require.Equal(t, false, result["allow_nil_global_secret"])
		require.Equal(t, true, result["round_trip"])
		require.Equal(t, false, result["fallback_recovers"])
	})
}
