package hibernate

import (
	"github.com/Sumatoshi-tech/hibmigrate/pkg/jast"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/match"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipe"
	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

const (
	lazyCollection       = "org.hibernate.annotations.LazyCollection"
	lazyCollectionOption = "org.hibernate.annotations.LazyCollectionOption"

	msgFetchType = "fetchType"
)

// fetchTypes maps LazyCollectionOption constants to FetchType constants.
// EXTRA has no FetchType equivalent.
var fetchTypes = map[string]string{
	"":      "LAZY",
	"TRUE":  "LAZY",
	"FALSE": "EAGER",
}

var relationshipAnnotations = []string{
	"jakarta.persistence.ElementCollection",
	"jakarta.persistence.OneToOne",
	"jakarta.persistence.OneToMany",
	"jakarta.persistence.ManyToOne",
	"jakarta.persistence.ManyToMany",
	"javax.persistence.ElementCollection",
	"javax.persistence.OneToOne",
	"javax.persistence.OneToMany",
	"javax.persistence.ManyToOne",
	"javax.persistence.ManyToMany",
}

// ReplaceLazyCollectionAnnotation moves @LazyCollection decisions onto the
// fetch attribute of the member's relationship annotation.
type ReplaceLazyCollectionAnnotation struct {
	recipe.Info

	lazy         match.AnnotationMatcher
	relationship match.AnnotationMatcher
}

// NewReplaceLazyCollectionAnnotation creates the rule.
func NewReplaceLazyCollectionAnnotation() *ReplaceLazyCollectionAnnotation {
	return &ReplaceLazyCollectionAnnotation{
		Info: recipe.Info{
			ID:      Prefix + "ReplaceLazyCollectionAnnotation",
			Display: "Replace `@LazyCollection` with `jakarta.persistence.FetchType`",
			Summary: "Adds the `FetchType` to jakarta annotations and deletes `@LazyCollection`.",
		},
		lazy:         match.NewAnnotationMatcher(lazyCollection),
		relationship: match.NewAnnotationMatcher(relationshipAnnotations...),
	}
}

// Gate implements recipe.Rule.
func (r *ReplaceLazyCollectionAnnotation) Gate() match.Gate {
	return match.UsesType(lazyCollection)
}

// Visit implements recipe.Rule.
func (r *ReplaceLazyCollectionAnnotation) Visit(c *recipe.Context) error {
	jast.Inspect(c.File.Root, func(cur *jast.Cursor) bool {
		n := cur.Node()

		switch {
		case n.Is(jast.KindFieldDeclaration, jast.KindMethodDeclaration):
			r.enterMember(c, cur)
		case jast.IsAnnotation(n):
			r.visitAnnotation(c, cur)
		}

		return true
	}, nil)

	return nil
}

// enterMember removes a mappable @LazyCollection and leaves the FetchType
// constant on the member's frame.
func (r *ReplaceLazyCollectionAnnotation) enterMember(c *recipe.Context, cur *jast.Cursor) {
	found := r.lazy.FindOn(c.Scope, cur.Node())
	if len(found) == 0 {
		return
	}

	ann := found[0]

	fetch, ok := fetchTypes[r.option(c, ann)]
	if !ok {
		return
	}

	cur.PutMessage(msgFetchType, fetch)
	c.DeleteAnnotation(ann)
	c.RemoveImport(lazyCollection)
	c.RemoveImport(lazyCollectionOption)
}

// option returns the LazyCollectionOption constant named on ann, or empty
// when the annotation has no argument.
func (r *ReplaceLazyCollectionAnnotation) option(c *recipe.Context, ann *jast.Node) string {
	value := c.File.AnnotationValue(ann, "value")

	switch {
	case value == nil:
		if len(jast.AnnotationArgs(ann).NamedChildren()) > 0 {
			return "?"
		}

		return ""
	case value.Is(jast.KindFieldAccess):
		return c.Text(value.Child("field"))
	case value.Is(jast.KindIdentifier):
		return c.Text(value)
	default:
		return "?"
	}
}

func (r *ReplaceLazyCollectionAnnotation) visitAnnotation(c *recipe.Context, cur *jast.Cursor) {
	ann := cur.Node()

	fqn := r.relationship.Resolve(c.Scope, ann)
	if fqn == "" || c.File.AnnotationPair(ann, "fetch") != nil {
		return
	}

	member := cur.FirstEnclosing(jast.KindFieldDeclaration, jast.KindMethodDeclaration)
	if member == nil || jast.AnnotatedMember(ann) != member.Node() {
		return
	}

	// Polling consumes the decision: only the first relationship annotation
	// in source order without fetch receives it.
	value, ok := member.PollMessage(msgFetchType)
	if !ok {
		return
	}

	assign := template.Assign("fetch",
		template.StaticField(template.Type(jast.PackageOf(fqn)+".FetchType"), value.(string)))

	args := jast.AnnotationArgs(ann)

	switch {
	case args == nil:
		c.SpliceAt(ann.End, template.Concat(template.Raw("("), assign, template.Raw(")")))
	case len(args.NamedChildren()) == 0:
		c.SpliceAt(args.End-1, assign)
	default:
		c.SpliceAt(args.End-1, template.Concat(template.Raw(", "), assign))
	}
}
