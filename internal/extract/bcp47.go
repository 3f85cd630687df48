package extract

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/cldrsync/internal/store"
)

// bcp47Dataset extracts the BCP-47 key/type registries. Most registry files
// carry several keyword keys, each projected into its own table with alias
// expansion; timezone and variant are flat exceptions.
var bcp47Dataset = Dataset{
	Name: "bcp47",
	Routines: []Routine{
		{Name: "calendar", Run: extractCalendar},
		{Name: "collation", Run: extractCollation},
		{Name: "currency", Run: extractBCP47Currency},
		{Name: "measure", Run: extractMeasure},
		{Name: "number", Run: extractNumber},
		{Name: "timezone", Run: extractTimezone},
		{Name: "variant", Run: extractVariant},
	},
}

// nameDescription is the standard registry shape: a short code and its
// canonical description, with the code as the alias-substitution target.
var nameDescription = []Field{
	{Attr: "name", Key: true},
	{Attr: "description"},
}

// flatRegistry is the shape of the timezone and variant registries: the
// preferred and alias columns come straight from source attributes instead
// of being derived by alias expansion.
var flatRegistry = []Field{
	{Attr: "name"},
	{Attr: "description"},
	{Attr: "preferred"},
	{Attr: "alias"},
}

// keywordKeys collects the document's keyword key groups by short code,
// skipping any group marked deprecated.
func keywordKeys(doc Record) (map[string]Record, error) {
	keys, err := requirePath(doc, "ldmlBCP47.keyword.key")
	if err != nil {
		return nil, err
	}

	parts := map[string]Record{}
	for _, key := range elements(keys) {
		if attr(key, "deprecated") != "" {
			continue
		}
		parts[attr(key, "name")] = key
	}
	return parts, nil
}

// storeKeyGroups writes one aliased (name, description) table per keyword
// key, named <prefix>_<key>, in sorted key order.
func storeKeyGroups(st *store.Store, doc Record, prefix string, skip map[string]bool) error {
	parts, err := keywordKeys(doc)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(parts))
	for name := range parts {
		if skip[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table := fmt.Sprintf("%s_%s", prefix, name)
		if err := simpleStore(st, table, elements(parts[name]["type"]), true, nameDescription); err != nil {
			return err
		}
	}
	return nil
}

// singleKey returns the document's only (or first) keyword key group.
func singleKey(doc Record) (Record, error) {
	keys, err := requirePath(doc, "ldmlBCP47.keyword.key")
	if err != nil {
		return nil, err
	}
	recs := elements(keys)
	if len(recs) == 0 {
		return nil, fmt.Errorf("no keyword keys in document")
	}
	return recs[0], nil
}

func extractCalendar(doc Record, st *store.Store) error {
	return storeKeyGroups(st, doc, "calendar", nil)
}

func extractCollation(doc Record, st *store.Store) error {
	// kr (reorder) values are open-ended script codes, not a fixed registry.
	return storeKeyGroups(st, doc, "collation", map[string]bool{"kr": true})
}

func extractBCP47Currency(doc Record, st *store.Store) error {
	return storeKeyGroups(st, doc, "currency", nil)
}

func extractMeasure(doc Record, st *store.Store) error {
	key, err := singleKey(doc)
	if err != nil {
		return err
	}
	return simpleStore(st, "measure", elements(key["type"]), true, nameDescription)
}

func extractNumber(doc Record, st *store.Store) error {
	key, err := singleKey(doc)
	if err != nil {
		return err
	}
	return simpleStore(st, "number", elements(key["type"]), true, nameDescription)
}

func extractTimezone(doc Record, st *store.Store) error {
	key, err := singleKey(doc)
	if err != nil {
		return err
	}
	return simpleStore(st, "timezone", elements(key["type"]), false, flatRegistry)
}

func extractVariant(doc Record, st *store.Store) error {
	key, err := singleKey(doc)
	if err != nil {
		return err
	}
	return simpleStore(st, "variant_em", elements(key["type"]), false, flatRegistry)
}
