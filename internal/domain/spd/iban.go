package spd

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	czechCountryCode = "CZ"
	maxPrefixDigits  = 6
	maxNumberDigits  = 10
	bankCodeDigits   = 4
)

var ibanModulus = big.NewInt(97)

// AccountToIBAN converts a Czech domestic account number written as
// "[prefix-]number/bankCode" into its IBAN form, e.g.
// "12-3456789012/0100" becomes "CZ0301000000123456789012".
func AccountToIBAN(account string) (string, error) {
	local, bank, ok := strings.Cut(account, "/")
	if !ok {
		return "", fmt.Errorf("%w: %q has no bank code", ErrMalformedAccount, account)
	}
	if len(bank) != bankCodeDigits || !isDigits(bank) {
		return "", fmt.Errorf("%w: bank code %q must be %d digits", ErrMalformedAccount, bank, bankCodeDigits)
	}

	prefix, number, hasPrefix := strings.Cut(local, "-")
	if !hasPrefix {
		prefix, number = "0", local
	}
	if prefix == "" || len(prefix) > maxPrefixDigits || !isDigits(prefix) {
		return "", fmt.Errorf("%w: prefix %q must be 1-%d digits", ErrMalformedAccount, prefix, maxPrefixDigits)
	}
	if number == "" || len(number) > maxNumberDigits || !isDigits(number) {
		return "", fmt.Errorf("%w: number %q must be 1-%d digits", ErrMalformedAccount, number, maxNumberDigits)
	}

	bban := bank + leftPad(prefix, maxPrefixDigits) + leftPad(number, maxNumberDigits)

	check, err := IBANCheckDigits(czechCountryCode + "00" + bban)
	if err != nil {
		return "", err
	}

	return czechCountryCode + check + bban, nil
}

// IBANCheckDigits computes the ISO 7064 mod-97-10 check digits for iban.
// The check digits already present at positions 2-3 are ignored.
func IBANCheckDigits(iban string) (string, error) {
	if len(iban) < 5 {
		return "", fmt.Errorf("%w: IBAN %q is too short", ErrInvalidField, iban)
	}

	rearranged := strings.ToUpper(iban[4:] + iban[:2] + "00")

	var digits strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			digits.WriteString(strconv.Itoa(int(r-'A') + 10))
		default:
			return "", fmt.Errorf("%w: IBAN %q contains %q", ErrInvalidField, iban, r)
		}
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return "", fmt.Errorf("%w: IBAN %q is not numeric", ErrInvalidField, iban)
	}

	remainder := new(big.Int).Mod(n, ibanModulus).Int64()
	return fmt.Sprintf("%02d", 98-remainder), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
