package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/pkg/config"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(config.EncryptionConfig{Password: "test-password", Salt: "test-salt"})
	require.NoError(t, err)
	return c
}

func TestCipherRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	encrypted, err := c.Encrypt("Juan Perez")
	require.NoError(t, err)
	assert.NotEqual(t, "Juan Perez", encrypted)
	assert.True(t, c.IsEncrypted(encrypted))

	plain, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "Juan Perez", plain)
}

func TestCipherEncryptIsIdempotent(t *testing.T) {
	c := newTestCipher(t)

	once, err := c.Encrypt("sensitive")
	require.NoError(t, err)
	twice, err := c.Encrypt(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestCipherDecryptLeavesPlaintextAlone(t *testing.T) {
	c := newTestCipher(t)

	plain, err := c.Decrypt("never encrypted")
	require.NoError(t, err)
	assert.Equal(t, "never encrypted", plain)
}

func TestCipherEmptyValuePassesThrough(t *testing.T) {
	c := newTestCipher(t)

	encrypted, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", encrypted)
	assert.False(t, c.IsEncrypted(""))
}

func TestCipherExplicitKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	c, err := NewCipher(config.EncryptionConfig{Key: key})
	require.NoError(t, err)

	encrypted, err := c.Encrypt("hola")
	require.NoError(t, err)
	plain, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "hola", plain)
}

func TestFieldGateProtectsOnlySensitiveFields(t *testing.T) {
	gate := NewFieldGate(newTestCipher(t), zap.NewNop())

	record := map[string]string{
		"employee_name": "Maria Lopez",
		"position":      "Supervisora",
	}
	protected, err := gate.Protect(TableMovements, record)
	require.NoError(t, err)

	assert.True(t, gate.cipher.IsEncrypted(protected["employee_name"]))
	assert.Equal(t, "Supervisora", protected["position"])

	revealed := gate.Reveal(TableMovements, protected)
	assert.Equal(t, record, revealed)
}

func TestFieldGateRevealToleratesCorruptValue(t *testing.T) {
	gate := NewFieldGate(newTestCipher(t), zap.NewNop())

	// Marker present but payload garbage: must log and keep the stored value.
	corrupt := "QURSMWdhcmJhZ2U="
	out := gate.RevealValue(TableIncidents, "employee_name", corrupt)
	assert.Equal(t, corrupt, out)
}

func TestFieldGateDoubleProtectMatchesSingle(t *testing.T) {
	gate := NewFieldGate(newTestCipher(t), zap.NewNop())

	record := map[string]string{"relevant_facts": "novedad en turno nocturno"}
	once, err := gate.Protect(TableReports, record)
	require.NoError(t, err)
	twice, err := gate.Protect(TableReports, once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}
