package extract

import (
	"github.com/mesh-intelligence/cldrsync/internal/store"
)

// currencyDataset extracts currency rounding rules and per-territory
// currency validity from the supplemental data file.
var currencyDataset = Dataset{
	Name:   "currency",
	Prefix: "supplemental",
	Routines: []Routine{
		{Name: "supplementalData", Run: extractCurrencyData},
	},
}

func extractCurrencyData(doc Record, st *store.Store) error {
	info, err := requirePath(doc, "supplementalData.currencyData.fractions.info")
	if err != nil {
		return err
	}
	roundingFields := []Field{
		{Attr: "iso4217"},
		{Attr: "digits", Cast: CastInt},
		{Attr: "rounding", Cast: CastInt},
		{Attr: "cashDigits", Cast: CastInt},
		{Attr: "cashRounding", Cast: CastInt},
	}
	if err := simpleStore(st, "rounding", elements(info), false, roundingFields); err != nil {
		return err
	}

	// Region validity is typecast, date-ranged data keyed by the enclosing
	// territory, so it cannot go through the flat projector.
	regions, err := requirePath(doc, "supplementalData.currencyData.region")
	if err != nil {
		return err
	}
	cols := []store.Column{
		store.Text("region"),
		store.Text("currency"),
		store.Typed("start", store.AffinityDate),
		store.Typed("end", store.AffinityDate),
		store.Typed("tender", store.AffinityBool),
	}
	if err := st.Recreate("region", cols); err != nil {
		return err
	}

	var rows [][]any
	for _, region := range elements(regions) {
		for _, currency := range elements(region["currency"]) {
			start, err := castValue(currency["@from"], Field{Attr: "from", Cast: CastDate})
			if err != nil {
				return err
			}
			end, err := castValue(currency["@to"], Field{Attr: "to", Cast: CastDate})
			if err != nil {
				return err
			}
			rows = append(rows, []any{
				attr(region, "iso3166"),
				attr(currency, "iso4217"),
				start,
				end,
				castBool(currency["@tender"], true),
			})
		}
	}
	return st.BulkInsert("region", len(cols), rows)
}
