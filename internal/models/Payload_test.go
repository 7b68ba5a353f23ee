package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_Text(t *testing.T) {
	p, err := DecodePayload(QRText, []byte(`{"text":"hello world"}`))
	require.NoError(t, err)
	assert.Equal(t, QRText, p.Kind())
	assert.Equal(t, "hello world", p.Encode())
}

func TestDecodePayload_URLAddsScheme(t *testing.T) {
	p, err := DecodePayload(QRURL, []byte(`{"url":" example.com/path "}`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", p.Encode())

	p, err = DecodePayload(QRURL, []byte(`{"url":"http://example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", p.Encode())
}

func TestWiFiPayload_Encode(t *testing.T) {
	p := &WiFiPayload{SSID: "Home;Net", Password: `p:a"ss`, Security: "WPA", Hidden: true}
	assert.Equal(t, `WIFI:T:WPA;S:Home\;Net;P:p\:a\"ss;H:true;;`, p.Encode())
}

func TestWiFiPayload_OpenNetwork(t *testing.T) {
	p := &WiFiPayload{SSID: "Cafe"}
	assert.Equal(t, "WIFI:T:nopass;S:Cafe;;", p.Encode())
}

func TestWiFiPayload_DefaultsToWPAWithPassword(t *testing.T) {
	p := &WiFiPayload{SSID: "Office", Password: "secret"}
	assert.Equal(t, "WIFI:T:WPA;S:Office;P:secret;;", p.Encode())
}

func TestEmailPayload_Encode(t *testing.T) {
	p := &EmailPayload{To: "a@example.com", Subject: "Hi there", Body: "a&b"}
	assert.Equal(t, "mailto:a@example.com?subject=Hi%20there&body=a%26b", p.Encode())

	p = &EmailPayload{To: "a@example.com"}
	assert.Equal(t, "mailto:a@example.com", p.Encode())
}

func TestPhoneAndSMSPayload_Encode(t *testing.T) {
	assert.Equal(t, "tel:+123456", (&PhonePayload{Number: " +123456 "}).Encode())
	assert.Equal(t, "SMSTO:+123:see you", (&SMSPayload{Number: "+123", Message: "see you"}).Encode())
}

func TestVCardPayload_Encode(t *testing.T) {
	p := &VCardPayload{FirstName: "Ada", LastName: "Lovelace", Organization: "Engines", Email: "ada@example.com", Address: "12 St"}
	expected := "BEGIN:VCARD\nVERSION:3.0\nN:Lovelace;Ada;;;\nFN:Ada Lovelace\nORG:Engines\nEMAIL:ada@example.com\nADR:;;12 St;;;;\nEND:VCARD"
	assert.Equal(t, expected, p.Encode())
}

func TestDecodePayload_ValidationErrors(t *testing.T) {
	cases := []struct {
		kind   QRType
		fields string
	}{
		{QRText, `{"text":""}`},
		{QRWiFi, `{"password":"x"}`},
		{QRWiFi, `{"ssid":"x","security":"WPA3-ENT"}`},
		{QREmail, `{"to":"not-an-email"}`},
		{QRPhone, `{}`},
		{QRSMS, `{"message":"hi"}`},
		{QRVCard, `{"lastName":"Only"}`},
	}
	for _, tc := range cases {
		_, err := DecodePayload(tc.kind, []byte(tc.fields))
		require.Error(t, err, "%s %s", tc.kind, tc.fields)
		assert.True(t, errors.Is(err, ErrInvalidPayload), "%s: %v", tc.kind, err)
		assert.True(t, IsValidation(err))
	}
}

func TestDecodePayload_UnknownType(t *testing.T) {
	_, err := DecodePayload("geo", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownQRType)
}

func TestDecodePayload_MalformedFields(t *testing.T) {
	_, err := DecodePayload(QRText, []byte(`{"text":`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestFormSnapshot_RoundTrip(t *testing.T) {
	src := &WiFiPayload{SSID: "Lab", Password: "pw", Security: "WEP"}
	raw, err := FormSnapshot(src)
	require.NoError(t, err)

	p, err := DecodePayload(QRWiFi, raw)
	require.NoError(t, err)
	assert.Equal(t, src, p)
}
