package hibernate_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/hibmigrate/pkg/recipes/hibernate"
)

func TestAddScalarPreferStandardBasicTypes(t *testing.T) {
	t.Parallel()

	rewriteRun(t, hibernate.NewAddScalarPreferStandardBasicTypes(), `package com.example;

import org.hibernate.query.NativeQuery;
import org.hibernate.type.IntegerType;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("count", IntegerType.INSTANCE);
    }
}
`, `package com.example;

import org.hibernate.query.NativeQuery;
import org.hibernate.type.StandardBasicTypes;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("count", StandardBasicTypes.INTEGER);
    }
}
`)
}

func TestAddScalarPreferStandardBasicTypes_KeepsStillUsedLegacyImport(t *testing.T) {
	t.Parallel()

	rewriteRun(t, hibernate.NewAddScalarPreferStandardBasicTypes(), `package com.example;

import org.hibernate.query.NativeQuery;
import org.hibernate.type.StringType;

class Repo {
    StringType type = StringType.INSTANCE;

    void run(NativeQuery<?> query) {
        query.addScalar("name", StringType.INSTANCE);
    }
}
`, `package com.example;

import org.hibernate.query.NativeQuery;
import org.hibernate.type.StandardBasicTypes;
import org.hibernate.type.StringType;

class Repo {
    StringType type = StringType.INSTANCE;

    void run(NativeQuery<?> query) {
        query.addScalar("name", StandardBasicTypes.STRING);
    }
}
`)
}

func TestAddScalarPreferStandardBasicTypes_UnrelatedReceiver(t *testing.T) {
	t.Parallel()

	rewriteNoop(t, hibernate.NewAddScalarPreferStandardBasicTypes(), `package com.example;

import org.hibernate.type.IntegerType;

class Repo {
    void run(com.acme.Builder builder) {
        builder.addScalar("count", IntegerType.INSTANCE);
    }
}
`)
}

func TestAddScalarPreferStandardBasicTypesForHibernate5_SQLQuery(t *testing.T) {
	t.Parallel()

	rewriteRun(t, hibernate.NewAddScalarPreferStandardBasicTypesForHibernate5(), `package com.example;

import org.hibernate.SQLQuery;
import org.hibernate.type.LongType;

class Repo {
    void run(SQLQuery query) {
        query.addScalar("id", LongType.INSTANCE);
    }
}
`, `package com.example;

import org.hibernate.SQLQuery;
import org.hibernate.type.StandardBasicTypes;

class Repo {
    void run(SQLQuery query) {
        query.addScalar("id", StandardBasicTypes.LONG);
    }
}
`)
}

func TestAddScalarPreferStandardBasicTypes_EveryLegacyType(t *testing.T) {
	t.Parallel()

	assert.Len(t, hibernate.ScalarConstants, 42)

	for legacy, constant := range hibernate.ScalarConstants {
		simple := legacy[strings.LastIndex(legacy, ".")+1:]

		t.Run(simple, func(t *testing.T) {
			t.Parallel()

			rewriteRun(t, hibernate.NewAddScalarPreferStandardBasicTypes(), fmt.Sprintf(`package com.example;

import org.hibernate.query.NativeQuery;
import %s;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("value", %s.INSTANCE);
    }
}
`, legacy, simple), fmt.Sprintf(`package com.example;

import org.hibernate.query.NativeQuery;
import org.hibernate.type.StandardBasicTypes;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("value", StandardBasicTypes.%s);
    }
}
`, constant))
		})
	}
}

func TestAddScalarPreferStandardBasicTypes_ConstructorArgument(t *testing.T) {
	t.Parallel()

	rewriteRun(t, hibernate.NewAddScalarPreferStandardBasicTypes(), `package com.example;

import org.hibernate.query.NativeQuery;
import org.hibernate.type.IntegerType;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("count", new IntegerType());
    }
}
`, `package com.example;

import org.hibernate.query.NativeQuery;
import org.hibernate.type.StandardBasicTypes;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("count", StandardBasicTypes.INTEGER);
    }
}
`)
}

func TestAddScalarPreferStandardBasicTypes_SameSimpleNameOtherPackage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{
			name: "qualified",
			src: `package com.example;

import org.hibernate.query.NativeQuery;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("count", com.acme.IntegerType.INSTANCE);
    }
}
`,
		},
		{
			name: "imported",
			src: `package com.example;

import com.acme.IntegerType;
import org.hibernate.query.NativeQuery;

class Repo {
    void run(NativeQuery<?> query) {
        query.addScalar("count", IntegerType.INSTANCE);
    }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rewriteNoop(t, hibernate.NewAddScalarPreferStandardBasicTypes(), tt.src)
		})
	}
}
