package models

import (
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

type QRType string

const (
	QRText  QRType = "text"
	QRURL   QRType = "url"
	QRWiFi  QRType = "wifi"
	QREmail QRType = "email"
	QRPhone QRType = "phone"
	QRSMS   QRType = "sms"
	QRVCard QRType = "vcard"
)

func (t QRType) Valid() bool {
	switch t {
	case QRText, QRURL, QRWiFi, QREmail, QRPhone, QRSMS, QRVCard:
		return true
	}
	return false
}

// Payload is one QR category with its form fields. Encode yields the string put into the symbol.
type Payload interface {
	Kind() QRType
	Encode() string
}

type TextPayload struct {
	Text string `json:"text" validate:"required"`
}

type URLPayload struct {
	URL string `json:"url" validate:"required"`
}

type WiFiPayload struct {
	SSID     string `json:"ssid" validate:"required"`
	Password string `json:"password"`
	Security string `json:"security" validate:"in:WPA,WEP,nopass"`
	Hidden   bool   `json:"hidden"`
}

type EmailPayload struct {
	To      string `json:"to" validate:"required|email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type PhonePayload struct {
	Number string `json:"number" validate:"required"`
}

type SMSPayload struct {
	Number  string `json:"number" validate:"required"`
	Message string `json:"message"`
}

type VCardPayload struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName"`
	Organization string `json:"organization"`
	Title        string `json:"title"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"email"`
	Website      string `json:"website"`
	Address      string `json:"address"`
}

func (p *TextPayload) Kind() QRType  { return QRText }
func (p *URLPayload) Kind() QRType   { return QRURL }
func (p *WiFiPayload) Kind() QRType  { return QRWiFi }
func (p *EmailPayload) Kind() QRType { return QREmail }
func (p *PhonePayload) Kind() QRType { return QRPhone }
func (p *SMSPayload) Kind() QRType   { return QRSMS }
func (p *VCardPayload) Kind() QRType { return QRVCard }

func (p *TextPayload) Encode() string { return p.Text }

func (p *URLPayload) Encode() string {
	u := strings.TrimSpace(p.URL)
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return u
}

func (p *WiFiPayload) Encode() string {
	security := p.Security
	if security == "" {
		security = "WPA"
		if p.Password == "" {
			security = "nopass"
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "WIFI:T:%s;S:%s;", security, escapeWiFi(p.SSID))
	if security != "nopass" {
		fmt.Fprintf(&b, "P:%s;", escapeWiFi(p.Password))
	}
	if p.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")
	return b.String()
}

var wifiEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`, `"`, `\"`)

func escapeWiFi(s string) string {
	return wifiEscaper.Replace(s)
}

func (p *EmailPayload) Encode() string {
	var params []string
	if p.Subject != "" {
		params = append(params, "subject="+uriComponent(p.Subject))
	}
	if p.Body != "" {
		params = append(params, "body="+uriComponent(p.Body))
	}
	out := "mailto:" + strings.TrimSpace(p.To)
	if len(params) > 0 {
		out += "?" + strings.Join(params, "&")
	}
	return out
}

// uriComponent escapes like encodeURIComponent: spaces become %20, not '+'.
func uriComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (p *PhonePayload) Encode() string {
	return "tel:" + strings.TrimSpace(p.Number)
}

func (p *SMSPayload) Encode() string {
	return fmt.Sprintf("SMSTO:%s:%s", strings.TrimSpace(p.Number), p.Message)
}

func (p *VCardPayload) Encode() string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		fmt.Sprintf("N:%s;%s;;;", p.LastName, p.FirstName),
		"FN:" + strings.TrimSpace(p.FirstName+" "+p.LastName),
	}
	optional := []struct{ tag, value string }{
		{"ORG", p.Organization},
		{"TITLE", p.Title},
		{"TEL", p.Phone},
		{"EMAIL", p.Email},
		{"URL", p.Website},
		{"ADR", p.Address},
	}
	for _, o := range optional {
		if o.value == "" {
			continue
		}
		if o.tag == "ADR" {
			lines = append(lines, fmt.Sprintf("ADR:;;%s;;;;", o.value))
			continue
		}
		lines = append(lines, o.tag+":"+o.value)
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\n")
}

func newPayload(kind QRType) (Payload, error) {
	switch kind {
	case QRText:
		return &TextPayload{}, nil
	case QRURL:
		return &URLPayload{}, nil
	case QRWiFi:
		return &WiFiPayload{}, nil
	case QREmail:
		return &EmailPayload{}, nil
	case QRPhone:
		return &PhonePayload{}, nil
	case QRSMS:
		return &SMSPayload{}, nil
	case QRVCard:
		return &VCardPayload{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQRType, kind)
	}
}

// DecodePayload builds and validates the variant for kind from its JSON form fields.
func DecodePayload(kind QRType, fields []byte) (Payload, error) {
	p, err := newPayload(kind)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	if err := ValidatePayload(p); err != nil {
		return nil, err
	}
	return p, nil
}

func ValidatePayload(p Payload) error {
	v := validate.Struct(p)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidPayload, v.Errors.One())
	}
	if strings.TrimSpace(p.Encode()) == "" {
		return ErrEmptyPayload
	}
	return nil
}

// FormSnapshot is the additionalData stored with a generated entry.
func FormSnapshot(p Payload) (json.RawMessage, error) {
	return json.Marshal(p)
}
