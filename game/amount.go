package game

import (
	"math"
	"strconv"
	"strings"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
)

// Amount keywords
const (
	AmountAll  = "all"
	AmountHalf = "half"
)

// ResolveAmount turns an amount argument into a positive integer.
// With keywords allowed, "all" is the whole pool and "half" is pool/2 rounded down.
// Literals must be plain base-10 integers. The result is not checked against pool.
func ResolveAmount(label, spec string, pool int64, keywords bool) (int64, error) {
	spec = strings.TrimSpace(spec)

	var amount int64
	switch {
	case keywords && strings.EqualFold(spec, AmountAll):
		amount = pool
	case keywords && strings.EqualFold(spec, AmountHalf):
		amount = pool / 2
	default:
		n, err := strconv.ParseInt(spec, 10, 64)
		if err != nil {
			return 0, invalidAmount(label)
		}
		amount = n
	}

	if amount <= 0 {
		return 0, invalidAmount(label)
	}
	return amount, nil
}

func invalidAmount(label string) error {
	if label == "" {
		return errors.New(errors.ErrInvalidAmount, "Invalid amount.")
	}
	return errors.Newf(errors.ErrInvalidAmount, "Invalid %s amount.", label)
}

// addCapped adds a non-negative credit, saturating at math.MaxInt64
func addCapped(balance, credit int64) int64 {
	if credit > math.MaxInt64-balance {
		return math.MaxInt64
	}
	return balance + credit
}

// halfOf returns floor(price*qty/2) without overflowing, capped at math.MaxInt64
func halfOf(price int64, qty int) int64 {
	n := int64(qty)
	half := price / 2
	if half > math.MaxInt64/n {
		return math.MaxInt64
	}
	return addCapped(half*n, (price%2)*n/2)
}
