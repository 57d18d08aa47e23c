package links

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppNormalizesPhone(t *testing.T) {
	assert.Equal(t, "https://wa.me/15551234567?text=hi", WhatsApp("+1 (555) 123-4567", "hi"))
}

func TestWhatsAppEncodesMessage(t *testing.T) {
	link := WhatsApp("+15551234567", "Hi! I want: Vase & Bowl\nPickup: Austin, TX")
	assert.Equal(t,
		"https://wa.me/15551234567?text=Hi!%20I%20want%3A%20Vase%20%26%20Bowl%0APickup%3A%20Austin%2C%20TX",
		link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hi! I want: Vase & Bowl\nPickup: Austin, TX", u.Query().Get("text"))
}

func TestSMS(t *testing.T) {
	assert.Equal(t, "sms:+1 555 123?&body=a%20b", SMS("+1 555 123", "a b"))
}

func TestTelIsVerbatim(t *testing.T) {
	assert.Equal(t, "tel:+1 (555) 123-4567", Tel("+1 (555) 123-4567"))
}

func TestSignalDependsOnDevice(t *testing.T) {
	mobile := NewBuilder(true).Signal("+15551234567", "hi there")
	desktop := NewBuilder(false).Signal("+15551234567", "hi there")

	assert.Equal(t, "sgnl://send?phone=+15551234567&text=hi%20there", mobile)
	assert.Equal(t, "https://signal.me/#p/%2B15551234567", desktop)
}

func TestEmptyPhoneStillBuildsLinks(t *testing.T) {
	l := NewBuilder(false).All("", "hello")

	assert.Equal(t, "https://wa.me/?text=hello", l.WhatsApp)
	assert.Equal(t, "sms:?&body=hello", l.SMS)
	assert.Equal(t, "https://signal.me/#p/", l.Signal)
	assert.Equal(t, "tel:", l.Tel)
}

func TestLinksFor(t *testing.T) {
	l := NewBuilder(true).All("+1", "m")
	assert.Equal(t, l.Signal, l.For(ChannelSignal))
	assert.Equal(t, l.Tel, l.For(ChannelTel))
	assert.Empty(t, l.For(Channel("fax")))
}

func TestDetectMobile(t *testing.T) {
	cases := map[string]bool{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)":   true,
		"Mozilla/5.0 (Linux; android 14; Pixel 8)":                 true,
		"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)":            true,
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)":          false,
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0": false,
		"": false,
	}
	for ua, want := range cases {
		assert.Equal(t, want, DetectMobile(ua), ua)
	}
}

func TestEncodeComponentMatchesBrowser(t *testing.T) {
	assert.Equal(t, "-_.!~*'()", EncodeComponent("-_.!~*'()"))
	assert.Equal(t, "%2F%3F%23%5B%5D%40%24%2B%3D", EncodeComponent("/?#[]@$+="))
	assert.Equal(t, "caf%C3%A9%20%E2%80%A6", EncodeComponent("café …"))
	assert.False(t, strings.Contains(EncodeComponent("a b"), "+"))
}

func TestParseChannel(t *testing.T) {
	ch, ok := ParseChannel(" Signal ")
	assert.True(t, ok)
	assert.Equal(t, ChannelSignal, ch)

	_, ok = ParseChannel("telegram")
	assert.False(t, ok)
}
