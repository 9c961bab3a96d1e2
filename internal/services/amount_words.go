package services

import "strings"

var (
	wordOnes  = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	wordTeens = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	wordTens  = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// ConvertToWords spells an integer rupee amount in the Indian numbering system,
// e.g. 118000 -> "One Lakh Eighteen Thousand Only". Zero is "Zero".
func ConvertToWords(amount int64) string {
	if amount == 0 {
		return "Zero"
	}
	if amount < 0 {
		// -amount overflows for MinInt64.
		if amount == -amount {
			return "Minus " + strings.TrimSpace(indianWords(uint64(1)<<63)) + " Only"
		}
		return "Minus " + ConvertToWords(-amount)
	}
	return strings.TrimSpace(indianWords(uint64(amount))) + " Only"
}

// indianWords groups n into crore, lakh, thousand and a final three-digit part.
// The crore count is itself spelled recursively, so there is no upper bound.
func indianWords(n uint64) string {
	crores := n / 10000000
	lakhs := (n % 10000000) / 100000
	thousands := (n % 100000) / 1000
	rest := n % 1000

	var b strings.Builder
	if crores > 0 {
		if crores < 1000 {
			b.WriteString(threeDigitWords(crores))
		} else {
			b.WriteString(strings.TrimSpace(indianWords(crores)))
		}
		b.WriteString(" Crore ")
	}
	if lakhs > 0 {
		b.WriteString(threeDigitWords(lakhs))
		b.WriteString(" Lakh ")
	}
	if thousands > 0 {
		b.WriteString(threeDigitWords(thousands))
		b.WriteString(" Thousand ")
	}
	if rest > 0 {
		b.WriteString(threeDigitWords(rest))
	}
	return b.String()
}

func threeDigitWords(n uint64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return wordOnes[n]
	case n < 20:
		return wordTeens[n-10]
	case n < 100:
		if n%10 != 0 {
			return wordTens[n/10] + " " + wordOnes[n%10]
		}
		return wordTens[n/10]
	default:
		if n%100 != 0 {
			return wordOnes[n/100] + " Hundred " + threeDigitWords(n%100)
		}
		return wordOnes[n/100] + " Hundred"
	}
}
