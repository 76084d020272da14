package hibernate

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

const (
	emptyInterceptor   = "org.hibernate.EmptyInterceptor"
	interceptor        = "org.hibernate.Interceptor"
	statementInspector = "org.hibernate.resource.jdbc.spi.StatementInspector"

	msgPrepareStatementFound = "prepareStatementFound"
)

// EmptyInterceptorToInterface replaces `extends EmptyInterceptor` with
// `implements Interceptor`, moving onPrepareStatement to StatementInspector.
type EmptyInterceptorToInterface struct {
	recipe.Info

	onPrepareStatement *match.MethodMatcher
	override           match.AnnotationMatcher
}

// NewEmptyInterceptorToInterface creates the rule.
func NewEmptyInterceptorToInterface() *EmptyInterceptorToInterface {
	return &EmptyInterceptorToInterface{
		Info: recipe.Info{
			ID:      Prefix + "EmptyInterceptorToInterface",
			Display: "Replace `extends EmptyInterceptor` with `implements Interceptor` and potentially `StatementInspector`",
			Summary: "In Hibernate 6.0 the `Interceptor` interface received default implementations, so the no-op " +
				"base class is no longer needed. `Interceptor#onPrepareStatement(String)` moves to " +
				"`StatementInspector#inspect(String)`.",
		},
		onPrepareStatement: match.MustMethodMatcher("org.hibernate.Interceptor onPrepareStatement(java.lang.String)"),
		override:           match.NewAnnotationMatcher(overrideAnnotation),
	}
}

// Gate implements recipe.Rule.
func (r *EmptyInterceptorToInterface) Gate() match.Gate {
	return match.Implements(emptyInterceptor)
}

// Visit implements recipe.Rule.
func (r *EmptyInterceptorToInterface) Visit(c *recipe.Context) error {
	jast.Inspect(c.File.Root, func(cur *jast.Cursor) bool {
		n := cur.Node()
		if n.Is(jast.KindMethodDeclaration) && r.isOnPrepareStatement(c, n) {
			cur.PutMessageOnFirstEnclosing(jast.KindClassDeclaration, msgPrepareStatementFound, n)
		}

		return true
	}, func(cur *jast.Cursor) {
		if cur.Node().Is(jast.KindClassDeclaration) {
			method, _ := jast.MessageAs[*jast.Node](cur, msgPrepareStatementFound)
			r.migrateClass(c, cur.Node(), method)
		}
	})

	return nil
}

func (r *EmptyInterceptorToInterface) isOnPrepareStatement(c *recipe.Context, method *jast.Node) bool {
	class := jast.EnclosingClass(method)
	if class == nil || !r.extendsEmptyInterceptor(c, class) {
		return false
	}

	return r.onPrepareStatement.MatchesDeclaration(c.Scope, method)
}

func (r *EmptyInterceptorToInterface) extendsEmptyInterceptor(c *recipe.Context, class *jast.Node) bool {
	super := class.Child("superclass")
	if super == nil {
		return false
	}

	for _, typ := range super.NamedChildren() {
		if c.Scope.ResolveType(typ) == emptyInterceptor {
			return true
		}
	}

	return false
}

// migrateClass rewrites the class header and, when method is non-nil, the
// onPrepareStatement override.
func (r *EmptyInterceptorToInterface) migrateClass(c *recipe.Context, class, method *jast.Node) {
	if !r.extendsEmptyInterceptor(c, class) {
		return
	}

	super := class.Child("superclass")
	c.ReplaceRange(super.Prev().End, super.End, "")

	added := []template.Fragment{template.Type(interceptor)}
	if method != nil {
		added = append(added, template.Type(statementInspector))
	}

	if list := class.Child("interfaces").FirstChildOfKind(jast.KindTypeList); list != nil {
		c.SpliceAt(list.End, template.Concat(template.Raw(", "), template.List(added...)))
	} else {
		c.SpliceAt(super.End, template.Concat(template.Raw(" implements "), template.List(added...)))
	}

	c.RemoveImport(emptyInterceptor)

	if method == nil {
		return
	}

	c.Replace(method.Child("name"), "inspect")

	if len(r.override.FindOn(c.Scope, method)) == 0 {
		c.Insert(method.Start, "@Override\n"+c.File.Indent(method))
	}
}
