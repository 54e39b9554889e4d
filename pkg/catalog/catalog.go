// Package catalog holds the name catalogs (teki, treasures, cave-unit
// folder names) that the CaveInfo loader resolves combined identifiers
// against. This mirrors the teacher's theme-pack loader (a small,
// read-mostly, load-once-then-immutable lookup table) retargeted from
// biome/loot tables to the cave generator's name catalogs.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Catalog is an immutable set of known teki and treasure internal names.
type Catalog struct {
	teki      map[string]bool
	treasures map[string]bool
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{teki: map[string]bool{}, treasures: map[string]bool{}}
}

// AddTeki registers a known teki internal name.
func (c *Catalog) AddTeki(name string) { c.teki[name] = true }

// AddTreasure registers a known treasure internal name.
func (c *Catalog) AddTreasure(name string) { c.treasures[name] = true }

// KnownTeki reports whether name is a registered teki.
func (c *Catalog) KnownTeki(name string) bool { return c.teki[name] }

// KnownTreasure reports whether name is a registered treasure.
func (c *Catalog) KnownTreasure(name string) bool { return c.treasures[name] }

// Resolve decomposes a combined "<teki>_<treasure>" identifier (§4.B).
// When combined contains no underscore it is returned verbatim as a teki
// name with no carried treasure. When it does, Resolve enumerates the
// cartesian product of every known teki name and every known treasure
// name looking for a split point that reproduces combined exactly as
// "<teki>_<treasure>"; ok is false if zero or more than one such split
// exists; the reference requires a *unique* decomposition.
func (c *Catalog) Resolve(combined string) (teki, treasure string, ok bool) {
	if !strings.Contains(combined, "_") {
		return combined, "", true
	}

	type match struct{ teki, treasure string }
	var matches []match
	for t := range c.teki {
		for tr := range c.treasures {
			if t+"_"+tr == combined {
				matches = append(matches, match{t, tr})
			}
		}
	}
	if len(matches) != 1 {
		return "", "", false
	}
	return matches[0].teki, matches[0].treasure, true
}

// LoadLines populates a Catalog from a simple "kind\tname" line format
// (kind is "teki" or "treasure"); this is NOT the real game's Shift-JIS
// CaveInfo grammar -- that parsing is the external asset loader's job
// (see pkg/caveinfo.Loader) -- but is a convenient, testable stand-in for
// community or synthetic catalogs.
func LoadLines(r io.Reader) (*Catalog, error) {
	c := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("catalog line %d: expected \"kind\\tname\", got %q", lineNo, line)
		}
		switch parts[0] {
		case "teki":
			c.AddTeki(parts[1])
		case "treasure":
			c.AddTreasure(parts[1])
		default:
			return nil, fmt.Errorf("catalog line %d: unknown kind %q", lineNo, parts[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
