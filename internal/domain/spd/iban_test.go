package spd_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/qr-platba/internal/domain/spd"
)

func TestAccountToIBAN_NumberAboveMaxInt32(t *testing.T) {
	iban, err := spd.AccountToIBAN("2501301193/2010")

	require.NoError(t, err)
	assert.Equal(t, "CZ3620100000002501301193", iban)
}

func TestAccountToIBAN_WithPrefix(t *testing.T) {
	iban, err := spd.AccountToIBAN("12-3456789012/0100")

	require.NoError(t, err)
	assert.Equal(t, "CZ0301000000123456789012", iban)
}

func TestAccountToIBAN_ShapeAndChecksum(t *testing.T) {
	accounts := []string{
		"2501301193/2010",
		"12-3456789012/0100",
		"19-2000145399/0800",
		"000000-0000000001/0300",
		"123456-9999999999/5500",
		"1/0100",
		"670100-2202306428/6210",
	}

	for _, account := range accounts {
		t.Run(account, func(t *testing.T) {
			iban, err := spd.AccountToIBAN(account)
			require.NoError(t, err)

			require.Len(t, iban, 24)
			assert.Equal(t, "CZ", iban[:2])
			for _, r := range iban[2:] {
				assert.True(t, r >= '0' && r <= '9', "non-digit %q in %s", r, iban)
			}

			check, err := spd.IBANCheckDigits(iban)
			require.NoError(t, err)
			assert.Equal(t, iban[2:4], check)
			assert.Equal(t, int64(1), ibanRemainder(t, iban), "valid IBAN must be 1 mod 97")
		})
	}
}

func TestAccountToIBAN_Malformed(t *testing.T) {
	cases := map[string]string{
		"no bank code":         "2501301193",
		"empty bank code":      "2501301193/",
		"short bank code":      "2501301193/201",
		"long bank code":       "2501301193/20100",
		"letters in bank code": "2501301193/20A0",
		"empty number":         "/2010",
		"long number":          "25013011931/2010",
		"letters in number":    "25013X1193/2010",
		"empty prefix":         "-2501301193/2010",
		"long prefix":          "1234567-2501301193/2010",
		"letters in prefix":    "1a-2501301193/2010",
		"empty":                "",
	}

	for name, account := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := spd.AccountToIBAN(account)
			require.ErrorIs(t, err, spd.ErrMalformedAccount)
		})
	}
}

func TestIBANCheckDigits_ForeignIBAN(t *testing.T) {
	check, err := spd.IBANCheckDigits("GB82WEST12345698765432")

	require.NoError(t, err)
	assert.Equal(t, "82", check)
}

func TestIBANCheckDigits_Invalid(t *testing.T) {
	_, err := spd.IBANCheckDigits("CZ")
	require.ErrorIs(t, err, spd.ErrInvalidField)

	_, err = spd.IBANCheckDigits("CZ00 0100")
	require.ErrorIs(t, err, spd.ErrInvalidField)
}

// ibanRemainder is an independent ISO 13616 validation: move the first four
// characters to the end, expand letters, take mod 97.
func ibanRemainder(t *testing.T, iban string) int64 {
	t.Helper()

	rearranged := iban[4:] + iban[:4]
	digits := ""
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			digits += big.NewInt(int64(r-'A') + 10).String()
			continue
		}
		digits += string(r)
	}

	n, ok := new(big.Int).SetString(digits, 10)
	require.True(t, ok)
	return new(big.Int).Mod(n, big.NewInt(97)).Int64()
}
