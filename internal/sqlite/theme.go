// Theme token store: a key/value table holding the base theme name,
// arbitrary color tokens, and a confetti palette kept under a single
// JSON key. Saving replaces the whole table in one transaction so the
// stored state is always canonical.
package sqlite

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/waybill/pkg/types"
)

// confettiKey is the single row holding the palette as a JSON array.
// Older files may instead carry confetti1..confetti5 rows.
const confettiKey = "confetti"

// maxConfettiColors caps the palette size.
const maxConfettiColors = 5

// defaultCustomConfetti is the palette offered when the base is custom
// and nothing was saved.
var defaultCustomConfetti = []string{"#ef4444", "#22c55e", "#3b82f6", "#eab308", "#a855f7"}

// GetTheme returns the stored theme, or nil when nothing was ever saved.
// The confetti slice holds the configured palette if one exists, the
// default custom palette when the base is custom, and nothing otherwise.
func (s *Store) GetTheme() (*types.Theme, error) {
	rows, err := s.db.Query(`SELECT key, value FROM theme`)
	if err != nil {
		return nil, fmt.Errorf("reading theme: %w", err)
	}
	defer rows.Close()

	var stored []themeRow
	for rows.Next() {
		var r themeRow
		if err := rows.Scan(&r.key, &r.value); err != nil {
			return nil, fmt.Errorf("scanning theme row: %w", err)
		}
		stored = append(stored, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating theme rows: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}

	theme := &types.Theme{Base: types.BaseLight, Colors: map[string]string{}}
	for _, r := range stored {
		lower := strings.ToLower(r.key)
		switch {
		case lower == "base":
			theme.Base = types.ParseBase(r.value)
		case lower == confettiKey || strings.HasPrefix(lower, confettiKey):
			// handled below
		default:
			theme.Colors[r.key] = r.value
		}
	}

	configured := parseConfetti(stored)

	switch {
	case len(configured) > 0:
		theme.Confetti = configured
	case theme.Base == types.BaseCustom:
		theme.Confetti = append([]string(nil), defaultCustomConfetti...)
	default:
		theme.Confetti = []string{}
	}

	return theme, nil
}

// SaveTheme replaces the stored theme wholesale: base row, one row per
// color token, and the palette under a single JSON key. The delete and
// all inserts commit together.
func (s *Store) SaveTheme(theme types.Theme) error {
	tx, err := s.begin()
	if err != nil {
		return fmt.Errorf("beginning theme save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM theme`); err != nil {
		return fmt.Errorf("clearing theme: %w", err)
	}

	insert := `INSERT INTO theme (key, value, updated_at)
               VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))`

	if _, err := tx.Exec(insert, "base", types.ParseBase(theme.Base)); err != nil {
		return fmt.Errorf("saving theme base: %w", err)
	}
	for k, v := range theme.Colors {
		if _, err := tx.Exec(insert, k, v); err != nil {
			return fmt.Errorf("saving theme token %q: %w", k, err)
		}
	}

	if cleaned := clampConfetti(theme.Confetti); len(cleaned) > 0 {
		payload, err := json.Marshal(cleaned)
		if err != nil {
			return fmt.Errorf("encoding confetti palette: %w", err)
		}
		if _, err := tx.Exec(insert, confettiKey, string(payload)); err != nil {
			return fmt.Errorf("saving confetti palette: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing theme save: %w", busyErr(err))
	}
	return nil
}

// EffectiveConfettiPalette returns the palette to actually render:
// the configured colors when present, otherwise a per-base default.
func (s *Store) EffectiveConfettiPalette() ([]string, error) {
	theme, err := s.GetTheme()
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return []string{"#000000"}, nil
	}
	if len(theme.Confetti) > 0 {
		return theme.Confetti, nil
	}
	switch theme.Base {
	case types.BaseDark:
		return []string{"#ffffff"}, nil
	case types.BaseCustom:
		return append([]string(nil), defaultCustomConfetti...), nil
	default:
		return []string{"#000000"}, nil
	}
}

// clampConfetti keeps order, drops blanks and case-insensitive
// duplicates, and clamps to maxConfettiColors.
func clampConfetti(colors []string) []string {
	out := []string{}
	for _, c := range colors {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if strings.EqualFold(seen, c) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
		if len(out) == maxConfettiColors {
			break
		}
	}
	return out
}

// themeRow is one key/value pair from the theme table.
type themeRow struct {
	key   string
	value string
}

// parseConfetti extracts the configured palette from theme rows.
// Preferred form is a single "confetti" row holding a JSON string
// array; legacy files carry confetti1..confetti5 rows instead.
func parseConfetti(rows []themeRow) []string {
	for _, r := range rows {
		if strings.EqualFold(r.key, confettiKey) {
			var arr []string
			if err := json.Unmarshal([]byte(r.value), &arr); err == nil {
				return clampConfetti(arr)
			}
		}
	}

	type legacy struct {
		idx   int
		value string
	}
	var found []legacy
	for _, r := range rows {
		lower := strings.ToLower(r.key)
		if !strings.HasPrefix(lower, confettiKey) || lower == confettiKey {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(lower, confettiKey))
		if err != nil {
			continue
		}
		found = append(found, legacy{idx, r.value})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].idx < found[j].idx })
	values := make([]string, 0, len(found))
	for _, f := range found {
		values = append(values, f.value)
	}
	return clampConfetti(values)
}
