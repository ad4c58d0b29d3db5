// Package facets defines the catalog lookup filters produced by the
// site parsers.
package facets

// Operator is a match operator understood by the catalog search layer.
type Operator string

const (
	StartsWith Operator = "startsWith"
	EndsWith   Operator = "endsWith"
)

// Property names used as facet keys.
const (
	QualifiedName         = "qualifiedName"
	DatabaseQualifiedName = "databaseQualifiedName"
)

// TypeName is the catalog entity kind a set of facets targets.
type TypeName string

const (
	ModeCollection      TypeName = "ModeCollection"
	ModeReport          TypeName = "ModeReport"
	SigmaWorkbook       TypeName = "SigmaWorkbook"
	SigmaPage           TypeName = "SigmaPage"
	SigmaDataElement    TypeName = "SigmaDataElement"
	SigmaDataset        TypeName = "SigmaDataset"
	QuickSightDashboard TypeName = "QuickSightDashboard"
	QuickSightAnalysis  TypeName = "QuickSightAnalysis"
	QuickSightDataset   TypeName = "QuickSightDataset"
)

func (t TypeName) String() string { return string(t) }

// Clause is a single match condition on an entity attribute.
type Clause struct {
	Operator Operator `json:"operator" yaml:"operator"`
	Operand  string   `json:"operand" yaml:"operand"`
	Value    string   `json:"value" yaml:"value"`
}

// Facets maps a property name to the ordered clauses that must all match.
type Facets struct {
	Properties map[string][]Clause `json:"properties" yaml:"properties"`
}

// Result is what a site parser hands back for a recognized URL.
// A nil *Result means the URL was not recognized.
type Result struct {
	Facets   Facets   `json:"facets" yaml:"facets"`
	TypeName TypeName `json:"typeName" yaml:"typeName"`
}

// Value returns the value of the last clause under property, which is the
// extracted identifier for every builder in this package.
func (r *Result) Value(property string) string {
	if r == nil {
		return ""
	}
	clauses := r.Facets.Properties[property]
	if len(clauses) == 0 {
		return ""
	}
	return clauses[len(clauses)-1].Value
}

// QualifiedNameFacets scopes a lookup to qualified names that start with
// prefix (usually "<tenant>/<connector>") and end with suffix.
func QualifiedNameFacets(prefix, suffix string) Facets {
	return Facets{
		Properties: map[string][]Clause{
			QualifiedName: {
				{Operator: StartsWith, Operand: QualifiedName, Value: prefix},
				{Operator: EndsWith, Operand: QualifiedName, Value: suffix},
			},
		},
	}
}

// EndsWithFacets matches qualifiedName ending with value under property.
func EndsWithFacets(property, value string) Facets {
	return Facets{
		Properties: map[string][]Clause{
			property: {
				{Operator: EndsWith, Operand: QualifiedName, Value: value},
			},
		},
	}
}

// New builds a Result. It exists so callers never construct a Result with
// only one of its two halves set.
func New(f Facets, typeName TypeName) *Result {
	return &Result{Facets: f, TypeName: typeName}
}
