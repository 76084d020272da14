package hibernate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes/hibernate"
)

const bigDecimalUserType = `import org.hibernate.HibernateException;
import org.hibernate.engine.spi.SharedSessionContractImplementor;
import org.hibernate.usertype.UserType;

import java.io.Serializable;
import java.math.BigDecimal;
import java.sql.PreparedStatement;
import java.sql.ResultSet;
import java.sql.SQLException;
import java.sql.Types;
import java.util.Objects;

public class BigDecimalAsString implements UserType {

    @Override
    public int[] sqlTypes() {
        return new int[]{Types.VARCHAR};
    }

    @Override
    public Class returnedClass() {
        return BigDecimal.class;
    }

    @Override
    public boolean equals(Object x, Object y) {
        return Objects.equals(x, y);
    }

    @Override
    public int hashCode(Object x) {
        return Objects.hashCode(x);
    }

    @Override
    public Object nullSafeGet(ResultSet rs, String[] names, SharedSessionContractImplementor session, Object owner) throws SQLException {
        String string = rs.getString(names[0]);
        return string == null || rs.wasNull() ? null : new BigDecimal(string);
    }

    @Override
    public void nullSafeSet(PreparedStatement st, Object value, int index, SharedSessionContractImplementor session) throws SQLException {
        if (value == null) {
            st.setNull(index, Types.VARCHAR);
        } else {
            st.setString(index, value.toString());
        }
    }

    @Override
    public Object deepCopy(Object value) {
        return value;
    }

    @Override
    public boolean isMutable() {
        return false;
    }

    @Override
    public Serializable disassemble(Object value) {
        return (BigDecimal) value;
    }

    @Override
    public Object assemble(Serializable cached, Object owner) {
        return cached;
    }

    @Override
    public Object replace(Object original, Object target, Object owner) {
        return original;
    }
}
`

func TestMigrateUserType(t *testing.T) {
	t.Parallel()

	rewriteRun(t, hibernate.NewMigrateUserType(), bigDecimalUserType, `import org.hibernate.HibernateException;
import org.hibernate.engine.spi.SharedSessionContractImplementor;
import org.hibernate.usertype.UserType;

import java.io.Serializable;
import java.math.BigDecimal;
import java.sql.PreparedStatement;
import java.sql.ResultSet;
import java.sql.SQLException;
import java.sql.Types;
import java.util.Objects;

public class BigDecimalAsString implements UserType<BigDecimal> {

    @Override
    public int getSqlType() {
        return Types.VARCHAR;
    }

    @Override
    public Class<BigDecimal> returnedClass() {
        return BigDecimal.class;
    }

    @Override
    public boolean equals(BigDecimal x, BigDecimal y) {
        return Objects.equals(x, y);
    }

    @Override
    public int hashCode(BigDecimal x) {
        return Objects.hashCode(x);
    }

    @Override
    public BigDecimal nullSafeGet(ResultSet rs, int position, SharedSessionContractImplementor session, Object owner) throws SQLException {
        String string = rs.getString(position);
        return string == null || rs.wasNull() ? null : new BigDecimal(string);
    }

    @Override
    public void nullSafeSet(PreparedStatement st, BigDecimal value, int index, SharedSessionContractImplementor session) throws SQLException {
        if (value == null) {
            st.setNull(index, Types.VARCHAR);
        } else {
            st.setString(index, value.toString());
        }
    }

    @Override
    public BigDecimal deepCopy(BigDecimal value) {
        return value;
    }

    @Override
    public boolean isMutable() {
        return false;
    }

    @Override
    public Serializable disassemble(BigDecimal value) {
        return value;
    }

    @Override
    public BigDecimal assemble(Serializable cached, Object owner) {
        return (BigDecimal) cached;
    }

    @Override
    public BigDecimal replace(BigDecimal original, BigDecimal target, Object owner) {
        return original;
    }
}
`)
}

func TestMigrateUserType_Skips(t *testing.T) {
	t.Parallel()

	rule := hibernate.NewMigrateUserType()

	t.Run("already parameterized", func(t *testing.T) {
		t.Parallel()

		rewriteNoop(t, rule, `import org.hibernate.usertype.UserType;

public class Money implements UserType<Long> {
    public Class<Long> returnedClass() {
        return Long.class;
    }

    public Object deepCopy(Object value) {
        return value;
    }
}
`)
	})

	t.Run("already has getSqlType", func(t *testing.T) {
		t.Parallel()

		rewriteNoop(t, rule, `import org.hibernate.usertype.UserType;

public class Money implements UserType {
    public int getSqlType() {
        return 4;
    }

    public Class returnedClass() {
        return Long.class;
    }
}
`)
	})

	t.Run("no class literal in returnedClass", func(t *testing.T) {
		t.Parallel()

		rewriteNoop(t, rule, `import org.hibernate.usertype.UserType;

public class Money implements UserType {
    private final Class type;

    public Class returnedClass() {
        return type;
    }

    public Object deepCopy(Object value) {
        return value;
    }
}
`)
	})
}

const columnNamesWarning = "nullSafeGet now receives a column position, migrate this use of the column names by hand"

func TestMigrateUserType_AddsOverrideAndFlagsColumnNames(t *testing.T) {
	t.Parallel()

	res := rewriteRun(t, hibernate.NewMigrateUserType(), `import org.hibernate.engine.spi.SharedSessionContractImplementor;
import org.hibernate.usertype.UserType;

import java.sql.ResultSet;
import java.sql.SQLException;
import java.sql.Types;

public class Money implements UserType {
    public int[] sqlTypes() {
        return new int[]{Types.BIGINT};
    }

    public Class returnedClass() {
        return Long.class;
    }

    public Object nullSafeGet(ResultSet rs, String[] names, SharedSessionContractImplementor session, Object owner) throws SQLException {
        long amount = rs.getLong(names[0]);
        String currency = rs.getString(names[1]);
        return amount;
    }
}
`, `import org.hibernate.engine.spi.SharedSessionContractImplementor;
import org.hibernate.usertype.UserType;

import java.sql.ResultSet;
import java.sql.SQLException;
import java.sql.Types;

public class Money implements UserType<Long> {
    @Override
    public int getSqlType() {
        return Types.BIGINT;
    }

    public Class<Long> returnedClass() {
        return Long.class;
    }

    public Long nullSafeGet(ResultSet rs, int position, SharedSessionContractImplementor session, Object owner) throws SQLException {
        long amount = rs.getLong(position);
        String currency = rs.getString(/*~~(`+columnNamesWarning+`)~~>*/names[1]);
        return amount;
    }
}
`)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, columnNamesWarning, res.Warnings[0].Message)
}
