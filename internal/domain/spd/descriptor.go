// Package spd builds Short Payment Descriptor strings, the text format
// carried by Czech "QR Platba" payment codes:
//
//	SPD*1.0*ACC:CZ0301000000123456789012*AM:1234.56*CC:CZK*X-VS:2016001234
//
// A Descriptor validates every field when it is set, so a descriptor that
// exists is always serializable. Descriptors are not safe for concurrent use.
package spd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Header  = "SPD"
	Version = "1.0"
)

const (
	KeyAccount             = "ACC"
	KeyAlternateAccounts   = "ALT-ACC"
	KeyAmount              = "AM"
	KeyCurrency            = "CC"
	KeyDueDate             = "DT"
	KeyMessage             = "MSG"
	KeyVariableSymbol      = "X-VS"
	KeySpecificSymbol      = "X-SS"
	KeyConstantSymbol      = "X-KS"
	KeyRecipientReference  = "RF"
	KeyRecipientName       = "RN"
	KeyPaymentType         = "PT"
	KeyChecksum            = "CRC32"
	KeyNotificationChannel = "NT"
	KeyNotificationAddress = "NTA"
	KeyRetryDays           = "X-PER"
	KeyInternalID          = "X-ID"
	KeyCallbackURL         = "X-URL"
)

// schema is the serialization order.
var schema = [...]string{
	KeyAccount,
	KeyAlternateAccounts,
	KeyAmount,
	KeyCurrency,
	KeyDueDate,
	KeyMessage,
	KeyVariableSymbol,
	KeySpecificSymbol,
	KeyConstantSymbol,
	KeyRecipientReference,
	KeyRecipientName,
	KeyPaymentType,
	KeyChecksum,
	KeyNotificationChannel,
	KeyNotificationAddress,
	KeyRetryDays,
	KeyInternalID,
	KeyCallbackURL,
}

const (
	maxAlternateAccounts  = 93
	maxAmount             = 10
	maxMessage            = 60
	maxSymbol             = 10
	maxRecipientReference = 16
	maxRecipientName      = 35
	paymentTypeLength     = 3
	checksumLength        = 8
	maxNotificationAddr   = 320
	maxRetryDays          = 99
	maxInternalID         = 20
	maxCallbackURL        = 140
)

const (
	NotifyByPhone = "P"
	NotifyByEmail = "E"
)

const dueDateLayout = "20060102"

type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Descriptor struct {
	values map[string]string
	label  *LabelConfig
	logo   *Logo
}

type Option func(*Descriptor) error

func WithAccount(account string) Option {
	return func(d *Descriptor) error { return d.SetAccount(account) }
}

func WithIBAN(iban string) Option {
	return func(d *Descriptor) error {
		d.SetIBAN(iban)
		return nil
	}
}

func WithAmount(amount decimal.Decimal) Option {
	return func(d *Descriptor) error { return d.SetAmount(amount) }
}

func WithVariableSymbol(vs int64) Option {
	return func(d *Descriptor) error { return d.SetVariableSymbol(vs) }
}

func WithCurrency(code string) Option {
	return func(d *Descriptor) error { return d.SetCurrency(code) }
}

// NewDescriptor returns a descriptor with the currency set to CZK and opts
// applied in order. The first failing option aborts construction.
func NewDescriptor(opts ...Option) (*Descriptor, error) {
	d := &Descriptor{
		values: map[string]string{KeyCurrency: DefaultCurrency},
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// SetAccount stores a domestic account number ("[prefix-]number/bank")
// converted to IBAN.
func (d *Descriptor) SetAccount(account string) error {
	iban, err := AccountToIBAN(account)
	if err != nil {
		return err
	}
	d.values[KeyAccount] = iban
	return nil
}

// SetIBAN stores iban as the account without validating it. It may carry a
// BIC suffix ("IBAN+BIC").
func (d *Descriptor) SetIBAN(iban string) *Descriptor {
	d.values[KeyAccount] = iban
	return d
}

func (d *Descriptor) SetAlternateAccounts(accounts ...string) error {
	if len(accounts) == 0 {
		return fmt.Errorf("%w: %s needs at least one account", ErrInvalidField, KeyAlternateAccounts)
	}
	return d.setBounded(KeyAlternateAccounts, strings.Join(accounts, ","), maxAlternateAccounts)
}

func (d *Descriptor) SetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidField, KeyAmount)
	}
	return d.setBounded(KeyAmount, amount.StringFixed(2), maxAmount)
}

func (d *Descriptor) SetCurrency(code string) error {
	if !IsSupportedCurrency(code) {
		return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}
	d.values[KeyCurrency] = code
	return nil
}

func (d *Descriptor) SetDueDate(date time.Time) *Descriptor {
	d.values[KeyDueDate] = date.Format(dueDateLayout)
	return d
}

// SetMessage stores msg with diacritics removed, anything outside printable
// ASCII dropped, and cut to 60 characters.
func (d *Descriptor) SetMessage(msg string) *Descriptor {
	msg = asciiOnly(StripDiacritics(msg))
	if len(msg) > maxMessage {
		msg = msg[:maxMessage]
	}
	d.values[KeyMessage] = msg
	return d
}

func (d *Descriptor) SetVariableSymbol(vs int64) error {
	return d.setSymbol(KeyVariableSymbol, vs)
}

func (d *Descriptor) SetSpecificSymbol(ss int64) error {
	return d.setSymbol(KeySpecificSymbol, ss)
}

func (d *Descriptor) SetConstantSymbol(ks int64) error {
	return d.setSymbol(KeyConstantSymbol, ks)
}

func (d *Descriptor) SetRecipientReference(ref string) error {
	return d.setBounded(KeyRecipientReference, ref, maxRecipientReference)
}

func (d *Descriptor) SetRecipientName(name string) error {
	return d.setBounded(KeyRecipientName, name, maxRecipientName)
}

func (d *Descriptor) SetPaymentType(pt string) error {
	if n := utf8.RuneCountInString(pt); n != paymentTypeLength {
		return fmt.Errorf("%w: %s must be exactly %d characters, got %d",
			ErrInvalidField, KeyPaymentType, paymentTypeLength, n)
	}
	d.values[KeyPaymentType] = pt
	return nil
}

// SetChecksum stores an 8 digit hexadecimal CRC32, normalized to upper case.
func (d *Descriptor) SetChecksum(crc string) error {
	if len(crc) != checksumLength {
		return fmt.Errorf("%w: %s must be exactly %d hex digits", ErrInvalidField, KeyChecksum, checksumLength)
	}
	if _, err := strconv.ParseUint(crc, 16, 32); err != nil {
		return fmt.Errorf("%w: %s %q is not hexadecimal", ErrInvalidField, KeyChecksum, crc)
	}
	d.values[KeyChecksum] = strings.ToUpper(crc)
	return nil
}

// SetNotification sets where the payee is notified: channel is NotifyByPhone
// or NotifyByEmail and address the phone number or e-mail.
func (d *Descriptor) SetNotification(channel, address string) error {
	if channel != NotifyByPhone && channel != NotifyByEmail {
		return fmt.Errorf("%w: %s must be %q or %q, got %q",
			ErrInvalidField, KeyNotificationChannel, NotifyByPhone, NotifyByEmail, channel)
	}
	if n := utf8.RuneCountInString(address); n > maxNotificationAddr {
		return fieldTooLong(KeyNotificationAddress, n, maxNotificationAddr)
	}
	d.values[KeyNotificationChannel] = channel
	d.values[KeyNotificationAddress] = address
	return nil
}

func (d *Descriptor) SetRetryDays(days int) error {
	if days < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidField, KeyRetryDays)
	}
	if days > maxRetryDays {
		return fmt.Errorf("%w: %s is at most %d", ErrFieldTooLong, KeyRetryDays, maxRetryDays)
	}
	d.values[KeyRetryDays] = strconv.Itoa(days)
	return nil
}

func (d *Descriptor) SetInternalID(id string) error {
	return d.setBounded(KeyInternalID, id, maxInternalID)
}

func (d *Descriptor) SetCallbackURL(url string) error {
	return d.setBounded(KeyCallbackURL, url, maxCallbackURL)
}

func (d *Descriptor) SetLabel(l Label) error {
	cfg, err := NewLabelConfig(l)
	if err != nil {
		return err
	}
	d.label = &cfg
	return nil
}

func (d *Descriptor) SetLogo(l Logo) *Descriptor {
	l = l.withDefaults()
	d.logo = &l
	return d
}

// Label returns the label configuration, or nil if none was set.
func (d *Descriptor) Label() *LabelConfig {
	return d.label
}

// Logo returns the logo configuration, or nil if none was set.
func (d *Descriptor) Logo() *Logo {
	return d.logo
}

func (d *Descriptor) Value(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Fields returns the populated fields in serialization order.
func (d *Descriptor) Fields() []Field {
	fields := make([]Field, 0, len(d.values))
	for _, key := range schema {
		if v, ok := d.values[key]; ok {
			fields = append(fields, Field{Key: key, Value: v})
		}
	}
	return fields
}

// String serializes the descriptor. An asterisk inside a value is written
// as %2A.
func (d *Descriptor) String() string {
	chunks := make([]string, 0, len(schema)+2)
	chunks = append(chunks, Header, Version)
	for _, f := range d.Fields() {
		chunks = append(chunks, f.Key+":"+strings.ReplaceAll(f.Value, "*", "%2A"))
	}
	return strings.Join(chunks, "*")
}

func (d *Descriptor) setSymbol(key string, v int64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidField, key)
	}
	return d.setBounded(key, strconv.FormatInt(v, 10), maxSymbol)
}

func (d *Descriptor) setBounded(key, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return fieldTooLong(key, n, limit)
	}
	d.values[key] = value
	return nil
}

func fieldTooLong(key string, n, limit int) error {
	return fmt.Errorf("%w: %s has %d characters, max %d", ErrFieldTooLong, key, n, limit)
}
