package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/template"
)

func TestFragments(t *testing.T) {
	t.Parallel()

	conv := template.Annotation(
		template.Type("jakarta.persistence.Convert"),
		template.Assign("converter", template.ClassLiteral(template.Type("org.hibernate.type.YesNoConverter"))),
	)

	assert.Equal(t, "@Convert(converter = YesNoConverter.class)", conv.String())
	assert.Equal(t, []string{"jakarta.persistence.Convert", "org.hibernate.type.YesNoConverter"}, conv.Types())
}

func TestType_JavaLangNotRecorded(t *testing.T) {
	t.Parallel()

	str := template.Type("java.lang.String")

	assert.Equal(t, "String", str.String())
	assert.Empty(t, str.Types())
	assert.Empty(t, template.Raw("x").Types())
	assert.True(t, template.Fragment{}.IsZero())
}

func TestNestedTypeAndStaticField(t *testing.T) {
	t.Parallel()

	none := template.ClassLiteral(template.NestedType("org.hibernate.jdbc.Expectation", "None"))
	assert.Equal(t, "Expectation.None.class", none.String())
	assert.Equal(t, []string{"org.hibernate.jdbc.Expectation"}, none.Types())

	lazy := template.StaticField(template.Type("jakarta.persistence.FetchType"), "LAZY")
	assert.Equal(t, "FetchType.LAZY", lazy.String())
}

func TestGenericCastArray(t *testing.T) {
	t.Parallel()

	money := template.Type("com.acme.Money")
	userType := template.Generic(template.Type("org.hibernate.usertype.UserType"), money)

	assert.Equal(t, "UserType<Money>", userType.String())
	assert.Equal(t, []string{"org.hibernate.usertype.UserType", "com.acme.Money"}, userType.Types())
	assert.Equal(t, "(Money) cached", template.Cast(money, template.Raw("cached")).String())
	assert.Equal(t, "{}", template.Array().String())
	assert.Equal(t, "a, b", template.List(template.Raw("a"), template.Raw("b")).String())
}

func TestMethodSignature(t *testing.T) {
	t.Parallel()

	sig := template.Method("nullSafeGet").
		Modifiers("public").
		Returns(template.Type("com.acme.Money")).
		Param(template.Type("java.sql.ResultSet"), "rs").
		Param(template.Raw("int"), "position").
		Throws(template.Type("java.sql.SQLException")).
		Build()

	assert.Equal(t, "public Money nullSafeGet(ResultSet rs, int position) throws SQLException", sig.String())
	assert.Equal(t, []string{"com.acme.Money", "java.sql.ResultSet", "java.sql.SQLException"}, sig.Types())

	body := template.Method("getSqlType").Modifiers("public").Returns(template.Raw("int")).
		WithBody("    ", "    ", template.Raw("return Types.VARCHAR;"))

	assert.Equal(t, "public int getSqlType() {\n        return Types.VARCHAR;\n    }", body.String())
}
