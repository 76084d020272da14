package hibernate

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

const standardBasicTypes = "org.hibernate.type.StandardBasicTypes"

// scalarConstants maps legacy basic type classes to their StandardBasicTypes constant.
var scalarConstants = map[string]string{
	"org.hibernate.type.BigDecimalType":        "BIG_DECIMAL",
	"org.hibernate.type.BigIntegerType":        "BIG_INTEGER",
	"org.hibernate.type.BinaryType":            "BINARY",
	"org.hibernate.type.BlobType":              "BLOB",
	"org.hibernate.type.BooleanType":           "BOOLEAN",
	"org.hibernate.type.ByteType":              "BYTE",
	"org.hibernate.type.CalendarDateType":      "CALENDAR_DATE",
	"org.hibernate.type.CalendarType":          "CALENDAR",
	"org.hibernate.type.CharArrayType":         "CHAR_ARRAY",
	"org.hibernate.type.CharacterArrayType":    "CHARACTER_ARRAY",
	"org.hibernate.type.CharacterType":         "CHARACTER",
	"org.hibernate.type.ClassType":             "CLASS",
	"org.hibernate.type.ClobType":              "CLOB",
	"org.hibernate.type.CurrencyType":          "CURRENCY",
	"org.hibernate.type.DateType":              "DATE",
	"org.hibernate.type.DoubleType":            "DOUBLE",
	"org.hibernate.type.FloatType":             "FLOAT",
	"org.hibernate.type.ImageType":             "IMAGE",
	"org.hibernate.type.IntegerType":           "INTEGER",
	"org.hibernate.type.LocaleType":            "LOCALE",
	"org.hibernate.type.LongType":              "LONG",
	"org.hibernate.type.MaterializedBlobType":  "MATERIALIZED_BLOB",
	"org.hibernate.type.MaterializedClobType":  "MATERIALIZED_CLOB",
	"org.hibernate.type.MaterializedNClobType": "MATERIALIZED_NCLOB",
	"org.hibernate.type.NClobType":             "NCLOB",
	"org.hibernate.type.NTextType":             "NTEXT",
	"org.hibernate.type.NumericBooleanType":    "NUMERIC_BOOLEAN",
	"org.hibernate.type.RowVersionType":        "ROW_VERSION",
	"org.hibernate.type.SerializableType":      "SERIALIZABLE",
	"org.hibernate.type.ShortType":             "SHORT",
	"org.hibernate.type.StringNVarcharType":    "NSTRING",
	"org.hibernate.type.StringType":            "STRING",
	"org.hibernate.type.TextType":              "TEXT",
	"org.hibernate.type.TimeType":              "TIME",
	"org.hibernate.type.TimeZoneType":          "TIMEZONE",
	"org.hibernate.type.TimestampType":         "TIMESTAMP",
	"org.hibernate.type.TrueFalseType":         "TRUE_FALSE",
	"org.hibernate.type.UUIDBinaryType":        "UUID_BINARY",
	"org.hibernate.type.UUIDCharType":          "UUID_CHAR",
	"org.hibernate.type.UrlType":               "URL",
	"org.hibernate.type.WrapperBinaryType":     "WRAPPER_BINARY",
	"org.hibernate.type.YesNoType":             "YES_NO",
}

// AddScalarPreferStandardBasicTypes replaces legacy type instances passed to
// NativeQuery.addScalar with StandardBasicTypes constants.
type AddScalarPreferStandardBasicTypes struct {
	recipe.Info

	matchers []*match.MethodMatcher
	// simpleOnly treats only an unqualified StandardBasicTypes.X as already migrated.
	simpleOnly bool
}

// NewAddScalarPreferStandardBasicTypes creates the Hibernate 6 variant.
func NewAddScalarPreferStandardBasicTypes() *AddScalarPreferStandardBasicTypes {
	return &AddScalarPreferStandardBasicTypes{
		Info: recipe.Info{
			ID:      Prefix + "AddScalarPreferStandardBasicTypes",
			Display: "Prefer StandardBasicTypes in NativeQuery.addScalar",
			Summary: "Prefer the use of `StandardBasicTypes.*` in `NativeQuery.addScalar(...)` invocations.",
		},
		matchers: []*match.MethodMatcher{
			match.MustMethodMatcher("org.hibernate.query.NativeQuery addScalar(String, org.hibernate.type.Type)"),
		},
	}
}

// NewAddScalarPreferStandardBasicTypesForHibernate5 creates the variant that
// also covers the Hibernate 5 SQLQuery entry point.
func NewAddScalarPreferStandardBasicTypesForHibernate5() *AddScalarPreferStandardBasicTypes {
	return &AddScalarPreferStandardBasicTypes{
		Info: recipe.Info{
			ID:      Prefix + "AddScalarPreferStandardBasicTypesForHibernate5",
			Display: "Prefer StandardBasicTypes in addScalar (Hibernate 5)",
			Summary: "Prefer the use of `StandardBasicTypes.*` in `NativeQuery.addScalar(...)` and " +
				"`SQLQuery.addScalar(...)` invocations while still on Hibernate 5.",
		},
		matchers: []*match.MethodMatcher{
			match.MustMethodMatcher("org.hibernate.query.NativeQuery addScalar(String, org.hibernate.type.Type)"),
			match.MustMethodMatcher("org.hibernate.SQLQuery addScalar(String, org.hibernate.type.Type)"),
		},
		simpleOnly: true,
	}
}

// Gate implements recipe.Rule.
func (r *AddScalarPreferStandardBasicTypes) Gate() match.Gate {
	gates := make([]match.Gate, 0, len(r.matchers))
	for _, m := range r.matchers {
		gates = append(gates, match.UsesMethod(m))
	}

	return match.Or(gates...)
}

// Visit implements recipe.Rule.
func (r *AddScalarPreferStandardBasicTypes) Visit(c *recipe.Context) error {
	for _, call := range c.File.Root.FindAll(jast.KindMethodInvocation) {
		if !r.matches(c, call) {
			continue
		}

		args := call.Child("arguments").NamedChildren()
		if len(args) != 2 || r.alreadyStandard(c, args[1]) {
			continue
		}

		legacy := c.Scope.TypeOf(args[1])

		constant, ok := scalarConstants[legacy]
		if !ok {
			continue
		}

		c.Splice(args[1], template.StaticField(template.Type(standardBasicTypes), constant))
		c.AddImport(standardBasicTypes, false)
		c.RemoveImport(legacy)
	}

	return nil
}

func (r *AddScalarPreferStandardBasicTypes) matches(c *recipe.Context, call *jast.Node) bool {
	for _, m := range r.matchers {
		if m.MatchesInvocation(c.Scope, call) {
			return true
		}
	}

	return false
}

func (r *AddScalarPreferStandardBasicTypes) alreadyStandard(c *recipe.Context, arg *jast.Node) bool {
	if !arg.Is(jast.KindFieldAccess) {
		return false
	}

	target := arg.Child("object")
	if r.simpleOnly && !target.Is(jast.KindIdentifier) {
		return false
	}

	return c.Scope.TypeName(target) == standardBasicTypes
}
