package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/joseph-ayodele/orders-intake/internal/core/normalize"
)

var months = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
}

// ParseBirthday finds an "FC" birthday anywhere in text and returns it as "D/M".
func ParseBirthday(text string) string {
	return parseBirthday(text, reBirthdayWords, reBirthdayNumeric)
}

// ParseBirthdayBlock reads a birthday section, where the FC prefix is optional.
func ParseBirthdayBlock(block string) string {
	if b := ParseBirthday(block); b != "" {
		return b
	}
	return parseBirthday(block, reBareWords, reBareNumeric)
}

func parseBirthday(text string, words, numeric *regexp.Regexp) string {
	if m := words.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		if month, ok := months[normalize.Fold(m[2])]; ok && validDay(day) {
			return fmt.Sprintf("%d/%d", day, month)
		}
	}
	if m := numeric.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if validDay(day) && month >= 1 && month <= 12 {
			return m[1] + "/" + m[2]
		}
	}
	return ""
}

func validDay(d int) bool { return d >= 1 && d <= 31 }
