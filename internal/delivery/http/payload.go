package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/qr-platba/internal/domain/qrcode"
	"github.com/Xausdorf/qr-platba/internal/domain/spd"
)

const dateLayout = "2006-01-02"

var errBadRequest = errors.New("bad request")

type LabelPayload struct {
	Text      string `json:"text"`
	TextColor []int  `json:"text_color,omitempty"`
	Margin    []int  `json:"margin,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

type PaymentPayload struct {
	Account             string           `json:"account,omitempty"`
	IBAN                string           `json:"iban,omitempty"`
	AlternateAccounts   []string         `json:"alternate_accounts,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	Currency            string           `json:"currency,omitempty"`
	DueDate             string           `json:"due_date,omitempty"`
	Message             string           `json:"message,omitempty"`
	VariableSymbol      *int64           `json:"variable_symbol,omitempty"`
	SpecificSymbol      *int64           `json:"specific_symbol,omitempty"`
	ConstantSymbol      *int64           `json:"constant_symbol,omitempty"`
	RecipientReference  string           `json:"recipient_reference,omitempty"`
	RecipientName       string           `json:"recipient_name,omitempty"`
	PaymentType         string           `json:"payment_type,omitempty"`
	Checksum            string           `json:"checksum,omitempty"`
	NotificationChannel string           `json:"notification_channel,omitempty"`
	NotificationAddress string           `json:"notification_address,omitempty"`
	RetryDays           *int             `json:"retry_days,omitempty"`
	InternalID          string           `json:"internal_id,omitempty"`
	CallbackURL         string           `json:"callback_url,omitempty"`
	Label               *LabelPayload    `json:"label,omitempty"`
}

// Descriptor validates the payload field by field and returns the first
// failure.
func (p *PaymentPayload) Descriptor() (*spd.Descriptor, error) {
	d, err := spd.NewDescriptor()
	if err != nil {
		return nil, err
	}

	switch {
	case p.Account != "" && p.IBAN != "":
		return nil, fmt.Errorf("%w: account and iban are mutually exclusive", errBadRequest)
	case p.Account != "":
		if err := d.SetAccount(p.Account); err != nil {
			return nil, err
		}
	case p.IBAN != "":
		d.SetIBAN(p.IBAN)
	}

	steps := []func() error{
		func() error {
			if len(p.AlternateAccounts) == 0 {
				return nil
			}
			return d.SetAlternateAccounts(p.AlternateAccounts...)
		},
		func() error {
			if p.Amount == nil {
				return nil
			}
			return d.SetAmount(*p.Amount)
		},
		func() error {
			if p.Currency == "" {
				return nil
			}
			return d.SetCurrency(p.Currency)
		},
		func() error {
			if p.DueDate == "" {
				return nil
			}
			date, err := time.Parse(dateLayout, p.DueDate)
			if err != nil {
				return fmt.Errorf("%w: due date %q must be YYYY-MM-DD", errBadRequest, p.DueDate)
			}
			d.SetDueDate(date)
			return nil
		},
		func() error {
			if p.Message != "" {
				d.SetMessage(p.Message)
			}
			return nil
		},
		optional(p.VariableSymbol, d.SetVariableSymbol),
		optional(p.SpecificSymbol, d.SetSpecificSymbol),
		optional(p.ConstantSymbol, d.SetConstantSymbol),
		nonEmpty(p.RecipientReference, d.SetRecipientReference),
		nonEmpty(p.RecipientName, d.SetRecipientName),
		nonEmpty(p.PaymentType, d.SetPaymentType),
		nonEmpty(p.Checksum, d.SetChecksum),
		func() error {
			if p.NotificationChannel == "" && p.NotificationAddress == "" {
				return nil
			}
			return d.SetNotification(p.NotificationChannel, p.NotificationAddress)
		},
		optional(p.RetryDays, d.SetRetryDays),
		nonEmpty(p.InternalID, d.SetInternalID),
		nonEmpty(p.CallbackURL, d.SetCallbackURL),
		func() error {
			if p.Label == nil {
				return nil
			}
			return d.SetLabel(spd.Label{
				Text:      p.Label.Text,
				TextColor: p.Label.TextColor,
				Margin:    p.Label.Margin,
				Alignment: spd.Alignment(p.Label.Alignment),
			})
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func optional[T any](v *T, set func(T) error) func() error {
	return func() error {
		if v == nil {
			return nil
		}
		return set(*v)
	}
}

func nonEmpty(v string, set func(string) error) func() error {
	return func() error {
		if v == "" {
			return nil
		}
		return set(v)
	}
}

// payloadFromQuery reads the short query parameter names used by GET /api/qr.
func payloadFromQuery(q url.Values) (*PaymentPayload, error) {
	p := &PaymentPayload{
		Account:            q.Get("account"),
		IBAN:               q.Get("iban"),
		Currency:           q.Get("currency"),
		DueDate:            q.Get("due"),
		Message:            q.Get("msg"),
		RecipientReference: q.Get("rf"),
		RecipientName:      q.Get("rn"),
	}

	if s := q.Get("amount"); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid amount %q", errBadRequest, s)
		}
		p.Amount = &amount
	}

	for name, dst := range map[string]**int64{
		"vs": &p.VariableSymbol,
		"ss": &p.SpecificSymbol,
		"ks": &p.ConstantSymbol,
	} {
		s := q.Get(name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
		}
		*dst = &v
	}

	return p, nil
}

func optionsFromQuery(q url.Values, defaults qrcode.Options) (qrcode.Options, error) {
	opts := defaults

	format, err := qrcode.ParseFormat(q.Get("format"))
	if err != nil {
		return opts, err
	}
	opts.Format = format

	for name, dst := range map[string]*int{"size": &opts.Size, "margin": &opts.Margin} {
		s := q.Get(name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return opts, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
		}
		*dst = v
	}

	return opts, opts.Validate()
}
