// Package links builds the deep links that open a prefilled conversation
// in a messaging app. Every builder is a pure function of its inputs.
package links

import (
	"regexp"
	"strings"
)

// Channel names a contact channel
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelSignal   Channel = "signal"
	ChannelTel      Channel = "tel"
)

// ParseChannel maps a channel name to a Channel
func ParseChannel(s string) (Channel, bool) {
	switch ch := Channel(strings.ToLower(strings.TrimSpace(s))); ch {
	case ChannelWhatsApp, ChannelSMS, ChannelSignal, ChannelTel:
		return ch, true
	}
	return "", false
}

var mobileUA = regexp.MustCompile(`(?i)Android|iPhone|iPad|iPod`)

// DetectMobile reports whether a user agent belongs to a mobile OS
func DetectMobile(userAgent string) bool {
	return mobileUA.MatchString(userAgent)
}

// Links holds one URI per channel for the same message
type Links struct {
	WhatsApp string `json:"whatsapp"`
	SMS      string `json:"sms"`
	Signal   string `json:"signal"`
	Tel      string `json:"tel"`
}

// For returns the link of a channel, or "" for an unknown channel
func (l Links) For(ch Channel) string {
	switch ch {
	case ChannelWhatsApp:
		return l.WhatsApp
	case ChannelSMS:
		return l.SMS
	case ChannelSignal:
		return l.Signal
	case ChannelTel:
		return l.Tel
	}
	return ""
}

// Builder builds links for a device class resolved once up front
type Builder struct {
	Mobile bool
}

// NewBuilder creates a builder for the given device class
func NewBuilder(mobile bool) Builder {
	return Builder{Mobile: mobile}
}

// All builds every channel link for the message
func (b Builder) All(phone, message string) Links {
	return Links{
		WhatsApp: WhatsApp(phone, message),
		SMS:      SMS(phone, message),
		Signal:   b.Signal(phone, message),
		Tel:      Tel(phone),
	}
}

// Signal uses the native scheme on mobile. Desktop handlers for sgnl:// are
// unreliable, so desktop gets the web contact page (which cannot carry text).
func (b Builder) Signal(phone, message string) string {
	if b.Mobile {
		return "sgnl://send?phone=" + phone + "&text=" + EncodeComponent(message)
	}
	return "https://signal.me/#p/" + EncodeComponent(phone)
}

// WhatsApp needs digits only in the path
func WhatsApp(phone, message string) string {
	return "https://wa.me/" + digits(phone) + "?text=" + EncodeComponent(message)
}

// SMS keeps the phone as given
func SMS(phone, message string) string {
	return "sms:" + phone + "?&body=" + EncodeComponent(message)
}

// Tel keeps the phone verbatim; dialers accept formatted numbers
func Tel(phone string) string {
	return "tel:" + phone
}

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s like a browser's encodeURIComponent:
// everything except A-Z a-z 0-9 and -_.!~*'() is escaped as UTF-8 bytes.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
