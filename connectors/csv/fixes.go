package csv

import (
	"log/slog"
	"strings"

	"room-stats/domain/billing"
)

// ReadFixes loads the hand-maintained Title/Level corrections. Rows without a
// title are ignored; rows with an unknown level are logged and skipped.
func ReadFixes(path string) ([]billing.Fix, error) {
	t, err := readTable(path, "title", "level")
	if err != nil {
		return nil, err
	}
	var fixes []billing.Fix
	for i := range t.rows {
		title := strings.TrimSpace(t.get(i, "title"))
		if title == "" {
			continue
		}
		raw := t.get(i, "level")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lvl, err := billing.ParseLevel(raw)
		if err != nil {
			slog.Warn("fixes.level.unknown", "line", i+2, "title", title, "error", err)
			continue
		}
		fixes = append(fixes, billing.NewFix(title, lvl))
	}
	return fixes, nil
}
