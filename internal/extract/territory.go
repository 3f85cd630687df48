package extract

import (
	"sort"
	"strings"

	"github.com/mesh-intelligence/cldrsync/internal/store"
)

// territoryDataset extracts territory containment, containment ancestry
// paths, language associations, and telephone codes.
var territoryDataset = Dataset{
	Name:   "territory",
	Prefix: "supplemental",
	Routines: []Routine{
		{Name: "supplementalData", Run: extractTerritoryData},
		{Name: "telephoneCodeData", Run: extractTelephoneCodes},
	},
}

// rootSentinel terminates containment path walks; it is the UN "World" group.
const rootSentinel = "001"

func extractTerritoryData(doc Record, st *store.Store) error {
	containment, err := requirePath(doc, "supplementalData.territoryContainment.group")
	if err != nil {
		return err
	}
	languages, err := requirePath(doc, "supplementalData.languageData.language")
	if err != nil {
		return err
	}

	if err := st.Recreate("containment", []store.Column{
		store.Text("parent"),
		store.Text("child"),
		store.Typed("intermediary", store.AffinityBool),
	}); err != nil {
		return err
	}
	if err := st.Recreate("containment_path", []store.Column{
		store.Text("territory"),
		store.Text("path"),
	}); err != nil {
		return err
	}
	if err := st.Recreate("language", []store.Column{
		store.Text("territory"),
		store.Text("language"),
		store.Text("script"),
		store.Typed("secondary", store.AffinityBool),
	}); err != nil {
		return err
	}

	// The containment of territories within each other and within logical
	// groupings, from UN data. A flat parent map is built alongside for the
	// ancestry walk below; a member listed under several groups keeps the
	// last parent seen.
	var rows [][]any
	mapping := map[string]string{}

	for _, group := range elements(containment) {
		if attr(group, "status") == "deprecated" {
			continue
		}
		members := strings.Fields(attr(group, "contains"))
		intermediary := attr(group, "status") == "grouping" || allNumeric(members)
		for _, member := range members {
			mapping[member] = attr(group, "type")
			rows = append(rows, []any{attr(group, "type"), member, intermediary})
		}
	}
	if err := st.BulkInsert("containment", 3, rows); err != nil {
		return err
	}

	// A reverse mapping of these, to quickly look up a breadcrumb for
	// display or navigation.
	if err := st.BulkInsert("containment_path", 2, containmentPaths(mapping)); err != nil {
		return err
	}

	// Languages typically associated with certain territories.
	rows = nil
	for _, language := range elements(languages) {
		territories, ok := language["@territories"].(string)
		if !ok {
			continue
		}
		scripts := strings.Fields(attr(language, "scripts"))
		for _, territory := range strings.Fields(territories) {
			secondary := attr(language, "alt") == "secondary"
			if len(scripts) == 0 {
				rows = append(rows, []any{territory, attr(language, "type"), nil, secondary})
				continue
			}
			for _, script := range scripts {
				rows = append(rows, []any{territory, attr(language, "type"), script, secondary})
			}
		}
	}
	return st.BulkInsert("language", 4, rows)
}

// containmentPaths computes the ordered ancestor chain for every mapped
// non-numeric territory except the EU grouping, as space-joined rows.
//
// The walk appends each parent in turn and stops after the root sentinel or
// when a parent has no mapping entry. A repeated parent also stops the walk,
// so malformed containment data with a cycle cannot hang the run.
func containmentPaths(mapping map[string]string) [][]any {
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		if isNumeric(key) || key == "EU" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]any, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []any{key, ancestryPath(mapping, key)})
	}
	return rows
}

// ancestryPath walks the parent map from key upward and space-joins the
// visited parents. The walk stops after the root sentinel, at a missing
// parent, and at a repeated parent (cycle guard). A key with no mapping
// entry yields the empty path.
func ancestryPath(mapping map[string]string, key string) string {
	var path []string
	seen := map[string]bool{}
	for parent := mapping[key]; parent != "" && !seen[parent]; {
		seen[parent] = true
		path = append(path, parent)
		if parent == rootSentinel {
			break
		}
		parent = mapping[parent]
	}
	return strings.Join(path, " ")
}

func extractTelephoneCodes(doc Record, st *store.Store) error {
	byTerritory, err := requirePath(doc, "supplementalData.telephoneCodeData.codesByTerritory")
	if err != nil {
		return err
	}

	if err := st.Recreate("telephone_code", []store.Column{
		store.Text("territory"),
		store.Text("code"),
	}); err != nil {
		return err
	}

	var rows [][]any
	for _, item := range elements(byTerritory) {
		for _, code := range elements(item["telephoneCountryCode"]) {
			rows = append(rows, []any{attr(item, "territory"), attr(code, "code")})
		}
	}
	return st.BulkInsert("telephone_code", 2, rows)
}

// isNumeric reports whether s is non-empty and all ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// allNumeric reports whether every member token is purely numeric.
func allNumeric(members []string) bool {
	for _, m := range members {
		if !isNumeric(m) {
			return false
		}
	}
	return true
}
