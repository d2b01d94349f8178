// Package indicator loads socioeconomic indicator tables and joins them onto
// boundary features. Each source file is described by a Descriptor instead of
// per-file ad hoc parsing; one generic loader handles all of them.
package indicator

// JoinKey selects how an indicator table identifies its geographic units.
type JoinKey int

const (
	// JoinByCode joins on the exact unit code (codgeo).
	JoinByCode JoinKey = iota
	// JoinByName joins on the accent/case-normalized display name.
	JoinByName
)

// Descriptor describes one indicator source file.
type Descriptor struct {
	// Name identifies the indicator in logs and layer config.
	Name string
	// File is the file name inside the data directory.
	File string
	// JoinKey selects code-based or name-based joining.
	JoinKey JoinKey
	// KeyColumn holds the join key (code column or name column).
	KeyColumn string
	// ValueColumn holds the numeric indicator value.
	ValueColumn string
	// SplitColumn, when non-empty, names a demographic split column whose
	// values (F/H/T) pivot into sibling attributes.
	SplitColumn string
	// Attribute is the property name written onto boundary features. With a
	// split, the split value is suffixed: attribute_F, attribute_H, attribute_T.
	Attribute string
}

// HasSplit reports whether the table pivots on a demographic split column.
func (d Descriptor) HasSplit() bool { return d.SplitColumn != "" }

// Defaults is the indicator set of the dashboard: unemployment and no-diploma
// rates keyed by code with a sex split, NEET rate keyed by code, poverty rate
// keyed by display name.
var Defaults = []Descriptor{
	{
		Name:        "chomage",
		File:        "taux_chomage_epci.csv",
		JoinKey:     JoinByCode,
		KeyColumn:   "codgeo",
		ValueColumn: "tx_chom1564",
		SplitColumn: "sexe",
		Attribute:   "chomage",
	},
	{
		Name:        "pauvrete",
		File:        "taux_pauvrete_epci.csv",
		JoinKey:     JoinByName,
		KeyColumn:   "libgeo",
		ValueColumn: "taux_pauvrete",
		Attribute:   "taux_pauvrete",
	},
	{
		Name:        "neets",
		File:        "15-24_neets_epci.csv",
		JoinKey:     JoinByCode,
		KeyColumn:   "codgeo",
		ValueColumn: "part_non_inseres",
		Attribute:   "neets",
	},
	{
		Name:        "sans_diplome",
		File:        "15+_sans_diplomes_epci.csv",
		JoinKey:     JoinByCode,
		KeyColumn:   "codgeo",
		ValueColumn: "p_nondipl15",
		SplitColumn: "sexe",
		Attribute:   "sans_diplome",
	},
}
