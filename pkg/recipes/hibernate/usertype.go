package hibernate

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
)

const (
	userType     = "org.hibernate.usertype.UserType"
	namesWarning = "nullSafeGet now receives a column position, migrate this use of the column names by hand"
)

var overrideMatcher = match.NewAnnotationMatcher(overrideAnnotation)

// userTypeMethod rewrites one UserType callback once T is known.
type userTypeMethod struct {
	matcher *match.MethodMatcher
	apply   func(c *recipe.Context, method *jast.Node, t string)
}

// MigrateUserType adds the Hibernate 6 type parameter to UserType
// implementations and narrows the callback signatures to it.
type MigrateUserType struct {
	recipe.Info

	methods []userTypeMethod
}

// NewMigrateUserType creates the rule.
func NewMigrateUserType() *MigrateUserType {
	return &MigrateUserType{
		Info: recipe.Info{
			ID:      Prefix + "MigrateUserType",
			Display: "Migrate `UserType` to Hibernate 6",
			Summary: "With Hibernate 6 the `UserType` interface received a type parameter making it more strictly " +
				"typed. This recipe applies the changes required to adhere to this change.",
		},
		methods: []userTypeMethod{
			{match.MustMethodMatcher("* sqlTypes()"), migrateSQLTypes},
			{match.MustMethodMatcher("* returnedClass()"), migrateReturnedClass},
			{match.MustMethodMatcher("* equals(Object, Object)"), narrowParams(0, 1)},
			{match.MustMethodMatcher("* hashCode(Object)"), narrowParams(0)},
			{match.MustMethodMatcher("* nullSafeGet(*, String[], *, *)"), migrateNullSafeGet},
			{match.MustMethodMatcher("* nullSafeSet(*, Object, int, *)"), narrowParams(1)},
			{match.MustMethodMatcher("* deepCopy(Object)"), narrowReturnAnd(0)},
			{match.MustMethodMatcher("* disassemble(Object)"), migrateDisassemble},
			{match.MustMethodMatcher("* assemble(*, Object)"), migrateAssemble},
			{match.MustMethodMatcher("* replace(Object, Object, Object)"), narrowReturnAnd(0, 1)},
		},
	}
}

// Gate implements recipe.Rule.
func (r *MigrateUserType) Gate() match.Gate {
	return match.Implements(userType)
}

// Visit implements recipe.Rule.
func (r *MigrateUserType) Visit(c *recipe.Context) error {
	for _, class := range c.File.Root.FindAll(jast.KindClassDeclaration) {
		r.migrateClass(c, class)
	}

	return nil
}

func (r *MigrateUserType) migrateClass(c *recipe.Context, class *jast.Node) {
	iface := userTypeInterface(c, class)
	if iface == nil || iface.Is(jast.KindGenericType) {
		return
	}

	methods := class.Child("body").ChildrenOfKind(jast.KindMethodDeclaration)
	for _, method := range methods {
		if c.File.MethodName(method) == "getSqlType" {
			return
		}
	}

	t := returnedClassType(c, methods)
	if t == "" {
		c.Logger.Debug("UserType without a class literal in returnedClass", "class", c.Text(class.Child("name")))

		return
	}

	c.Replace(iface, c.Text(iface)+"<"+t+">")

	for _, method := range methods {
		for _, m := range r.methods {
			if m.matcher.MatchesDeclaration(c.Scope, method) {
				m.apply(c, method, t)

				break
			}
		}
	}
}

// userTypeInterface returns the implements entry naming UserType, if any.
func userTypeInterface(c *recipe.Context, class *jast.Node) *jast.Node {
	ifaces := class.Child("interfaces")
	if ifaces == nil {
		return nil
	}

	for _, list := range ifaces.ChildrenOfKind(jast.KindTypeList) {
		for _, typ := range list.NamedChildren() {
			if c.Scope.ResolveType(typ) == userType {
				return typ
			}
		}
	}

	return nil
}

// returnedClassType finds T from the first return inside returnedClass(),
// which must be a class literal.
func returnedClassType(c *recipe.Context, methods []*jast.Node) string {
	for _, method := range methods {
		if c.File.MethodName(method) != "returnedClass" || len(jast.Parameters(method)) != 0 {
			continue
		}

		ret := firstReturn(method)
		if ret == nil {
			return ""
		}

		lit := returnValue(ret)
		if !lit.Is(jast.KindClassLiteral) {
			return ""
		}

		named := lit.NamedChildren()
		if len(named) == 0 {
			return ""
		}

		return c.Text(named[0])
	}

	return ""
}

func firstReturn(method *jast.Node) *jast.Node {
	body := method.Child("body")
	if body == nil {
		return nil
	}

	returns := body.FindAll(jast.KindReturnStatement)
	if len(returns) == 0 {
		return nil
	}

	return returns[0]
}

func returnValue(ret *jast.Node) *jast.Node {
	named := ret.NamedChildren()
	if len(named) == 0 {
		return nil
	}

	return named[0]
}

func isObject(c *recipe.Context, typ *jast.Node) bool {
	return c.Scope.ResolveType(typ) == "java.lang.Object"
}

func narrowType(c *recipe.Context, typ *jast.Node, t string) {
	if isObject(c, typ) {
		c.Replace(typ, t)
	}
}

func narrowReturn(c *recipe.Context, method *jast.Node, t string) {
	narrowType(c, method.Child("type"), t)
}

func narrowParams(indexes ...int) func(*recipe.Context, *jast.Node, string) {
	return func(c *recipe.Context, method *jast.Node, t string) {
		params := jast.Parameters(method)
		for _, idx := range indexes {
			if idx < len(params) {
				narrowType(c, params[idx].Child("type"), t)
			}
		}
	}
}

func narrowReturnAnd(indexes ...int) func(*recipe.Context, *jast.Node, string) {
	params := narrowParams(indexes...)

	return func(c *recipe.Context, method *jast.Node, t string) {
		narrowReturn(c, method, t)
		params(c, method, t)
	}
}

// migrateSQLTypes turns `int[] sqlTypes() { return new int[]{X}; }` into
// `int getSqlType() { return X; }`.
func migrateSQLTypes(c *recipe.Context, method *jast.Node, _ string) {
	ret := firstReturn(method)
	if ret == nil {
		return
	}

	value := returnValue(ret)
	if !value.Is(jast.KindArrayCreation) {
		return
	}

	init := value.FirstChildOfKind(jast.KindArrayInitializer)
	if init == nil {
		return
	}

	elems := init.NamedChildren()
	if len(elems) == 0 {
		return
	}

	c.Replace(method.Child("type"), "int")
	c.Replace(method.Child("name"), "getSqlType")
	c.Replace(value, c.Text(elems[0]))

	if len(overrideMatcher.FindOn(c.Scope, method)) == 0 {
		c.Insert(method.Start, "@Override\n"+c.File.Indent(method))
	}
}

func migrateReturnedClass(c *recipe.Context, method *jast.Node, t string) {
	c.Replace(method.Child("type"), "Class<"+t+">")
}

// migrateNullSafeGet swaps the column names array for a column position.
func migrateNullSafeGet(c *recipe.Context, method *jast.Node, t string) {
	narrowReturn(c, method, t)

	param := jast.Parameters(method)[1]
	names := c.Text(param.Child("name"))
	c.Replace(param, "int position")

	body := method.Child("body")
	if body == nil {
		return
	}

	rewritten := make(map[int]bool)

	for _, access := range body.FindAll(jast.KindArrayAccess) {
		if c.Text(access.Child("array")) == names && c.Text(access.Child("index")) == "0" {
			c.Replace(access, "position")
			rewritten[access.Start] = true
		}
	}

	// Any other use of the array no longer compiles once it is gone.
	for _, ident := range body.FindAll(jast.KindIdentifier) {
		if c.Text(ident) == names && !rewritten[ident.Start] {
			c.Warn(ident, namesWarning)

			return
		}
	}
}

// migrateDisassemble narrows the parameter and drops casts to T that the
// narrowing makes redundant.
func migrateDisassemble(c *recipe.Context, method *jast.Node, t string) {
	narrowParams(0)(c, method, t)

	for _, ret := range returnsOf(method) {
		value := returnValue(ret)
		if value.Is(jast.KindCastExpression) && c.Text(value.Child("type")) == t {
			c.Replace(value, c.Text(value.Child("value")))
		}
	}
}

// migrateAssemble narrows the return type and casts the returned value.
func migrateAssemble(c *recipe.Context, method *jast.Node, t string) {
	if !isObject(c, method.Child("type")) {
		return
	}

	narrowReturn(c, method, t)

	for _, ret := range returnsOf(method) {
		value := returnValue(ret)
		if value == nil || (value.Is(jast.KindCastExpression) && c.Text(value.Child("type")) == t) {
			continue
		}

		if value.Is(jast.KindLambdaExpression, "ternary_expression", "binary_expression", "assignment_expression") {
			c.Replace(value, "("+t+") ("+c.Text(value)+")")

			continue
		}

		c.Replace(value, "("+t+") "+c.Text(value))
	}
}

// returnsOf lists the method's own return statements, skipping those inside
// lambdas and local classes.
func returnsOf(method *jast.Node) []*jast.Node {
	body := method.Child("body")
	if body == nil {
		return nil
	}

	var out []*jast.Node

	body.Walk(func(n *jast.Node) bool {
		switch {
		case n.Is(jast.KindLambdaExpression, jast.KindClassBody):
			return false
		case n.Is(jast.KindReturnStatement):
			out = append(out, n)
		}

		return true
	})

	return out
}
