package storage

import (
	"strings"

	"device-inspector/internal/domain/entity"
)

// countReasons раскладывает склеенные причины FAIL по отдельным строкам.
// Причина синтетического FAIL одна и учитывается целиком.
func countReasons(hist map[string]int, reason string) {
	reason = strings.TrimSpace(reason)
	if strings.HasPrefix(reason, entity.AnalysisErrorPrefix) {
		hist[reason]++
		return
	}
	for _, r := range strings.Split(reason, "; ") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		hist[r]++
	}
}
