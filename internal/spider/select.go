package spider

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wheat/techdigest/internal/toc"
)

// Selection picks the subset of root columns to crawl. Exactly one mode must
// be set for a run; modes operate only on root-level titles and positions.
type Selection struct {
	All     bool
	Columns []string
	Range   string
	Keyword string
}

// Validate ensures exactly one selection mode is active.
func (s Selection) Validate() error {
	modes := 0
	if s.All {
		modes++
	}
	if len(s.Columns) > 0 {
		modes++
	}
	if s.Range != "" {
		modes++
	}
	if s.Keyword != "" {
		modes++
	}
	if modes != 1 {
		return errors.New("exactly one of all, columns, range, keyword must be set")
	}
	return nil
}

// Select applies the selection to the root TOC entries, preserving order.
func Select(root []toc.Entry, sel Selection) ([]toc.Entry, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	switch {
	case sel.All:
		return root, nil

	case len(sel.Columns) > 0:
		wanted := make(map[string]struct{}, len(sel.Columns))
		for _, title := range sel.Columns {
			wanted[title] = struct{}{}
		}
		picked := []toc.Entry{}
		for _, entry := range root {
			if _, ok := wanted[entry.Title]; ok {
				picked = append(picked, entry)
			}
		}
		return picked, nil

	case sel.Range != "":
		start, end, err := parseRange(sel.Range)
		if err != nil {
			return nil, err
		}
		if start < 1 {
			start = 1
		}
		if end > len(root) {
			end = len(root)
		}
		if start > end {
			return []toc.Entry{}, nil
		}
		return root[start-1 : end], nil

	default:
		picked := []toc.Entry{}
		for _, entry := range root {
			if strings.Contains(entry.Title, sel.Keyword) {
				picked = append(picked, entry)
			}
		}
		return picked, nil
	}
}

// parseRange parses an inclusive 1-based "start-end" range.
func parseRange(r string) (int, int, error) {
	parts := strings.SplitN(r, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q, expected start-end", r)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start %q: %w", parts[0], err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range end %q: %w", parts[1], err)
	}
	return start, end, nil
}
