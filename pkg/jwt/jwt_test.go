package jwt_test

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/sweets-api/pkg/jwt"
)

const (
	testSecret  = "test-secret-key-for-unit-tests"
	testSubject = "00000000-0000-0000-0000-000000000001"
	testIssuer  = "sweets-api-test"
)

func newCodec(t *testing.T, opts ...pkgjwt.Option) *pkgjwt.Codec {
	t.Helper()
	c, err := pkgjwt.NewCodec(testSecret, testIssuer, opts...)
	require.NoError(t, err)
	return c
}

func TestNewCodec_SecretVacio(t *testing.T) {
	_, err := pkgjwt.NewCodec("", testIssuer)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestIssueDecode_ConRole(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c := newCodec(t, pkgjwt.WithClock(func() time.Time { return now }))

	tok, err := c.Issue(testSubject, "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	a, err := c.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, testSubject, a.SubjectID)
	assert.Equal(t, "ADMIN", a.Role)
	assert.True(t, now.Equal(a.IssuedAt), "iat debe coincidir con el reloj")
	assert.Equal(t, time.Hour, a.ExpiresAt.Sub(a.IssuedAt), "la expiración debe ser exactamente 1 hora")
}

func TestDecode_Expirado_ConFirmaValida(t *testing.T) {
	issued := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := issued
	c := newCodec(t, pkgjwt.WithClock(func() time.Time { return clock }))

	tok, err := c.Issue(testSubject, "USER")
	require.NoError(t, err)

	clock = issued.Add(time.Hour - time.Second)
	_, err = c.Decode(tok)
	require.NoError(t, err, "un segundo antes de expirar sigue siendo válido")

	clock = issued.Add(time.Hour)
	_, err = c.Decode(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrExpired)
	assert.NotErrorIs(t, err, pkgjwt.ErrSignatureInvalid)
}

func TestDecode_SecretIncorrecto(t *testing.T) {
	tok, err := newCodec(t).Issue(testSubject, "USER")
	require.NoError(t, err)

	other, err := pkgjwt.NewCodec("otro-secret-completamente-distinto", testIssuer)
	require.NoError(t, err)

	_, err = other.Decode(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrSignatureInvalid)
}

func TestDecode_EmisorDistinto(t *testing.T) {
	other, err := pkgjwt.NewCodec(testSecret, "otro-servicio")
	require.NoError(t, err)
	tok, err := other.Issue(testSubject, "USER")
	require.NoError(t, err)

	_, err = newCodec(t).Decode(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
	assert.NotErrorIs(t, err, pkgjwt.ErrSignatureInvalid)
}

func TestDecode_PayloadAlterado(t *testing.T) {
	c := newCodec(t)
	tok, err := c.Issue(testSubject, "USER")
	require.NoError(t, err)

	// Payload con rol elevado pegado a la firma original.
	forged, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   testSubject,
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "ADMIN",
	}).SignedString([]byte("x"))
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = c.Decode(tampered)
	assert.ErrorIs(t, err, pkgjwt.ErrSignatureInvalid)
}

func TestDecode_Malformado(t *testing.T) {
	c := newCodec(t)
	for _, tok := range []string{"", "token.invalido.aqui", "abc", "a.b"} {
		_, err := c.Decode(tok)
		assert.ErrorIs(t, err, pkgjwt.ErrMalformed, "token %q", tok)
	}
}

func TestDecode_AlgoritmoNoPermitido(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   testSubject,
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "ADMIN",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newCodec(t).Decode(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrSignatureInvalid)
}

func TestDecode_RolDesconocido(t *testing.T) {
	c := newCodec(t, pkgjwt.WithRoles("USER", "ADMIN"))
	tok, err := c.Issue(testSubject, "SUPERUSER")
	require.NoError(t, err)

	_, err = c.Decode(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
}

func TestDecode_SinExpiracion(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: testSubject, IssuedAt: gojwt.NewNumericDate(time.Now())},
		Role:             "USER",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newCodec(t).Decode(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
}

func TestIssue_SinSubject(t *testing.T) {
	_, err := newCodec(t).Issue("", "USER")
	assert.Error(t, err)
}
