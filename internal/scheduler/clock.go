package scheduler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ParseClock converts "HH:MM" or "HH:MM:SS" into minutes from midnight.
// 24:00 is accepted as 1440; seconds are truncated.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return 0, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		nums[i] = n
	}
	h, m := nums[0], nums[1]
	if h > 24 || m > 59 {
		return 0, false
	}
	if len(nums) == 3 && nums[2] > 59 {
		return 0, false
	}
	if h == 24 && (m != 0 || (len(nums) == 3 && nums[2] != 0)) {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock renders minutes from midnight as HH:MM.
func FormatClock(min int) string {
	if min < 0 {
		min = 0
	}
	if min > domain.MinutesPerDay {
		min = domain.MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
