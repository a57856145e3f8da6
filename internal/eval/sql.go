package eval

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

// sqlDriverName maps the action's "driver" field to the registered
// database/sql driver name.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// sqlScalar runs p.Query against p.DSN and returns the single scalar value
// of the single row/column it must produce. The connection is opened and
// closed per call: an imposter evaluates each variable once per delivery,
// the same cadence as every other Var source, so there is no long-lived
// pool to manage here.
func sqlScalar(ctx context.Context, p spec.SqlQueryParam) (interface{}, error) {
	driverName, err := sqlDriverName(p.Driver)
	if err != nil {
		return nil, lerr.New(lerr.KindSqlConnect, err)
	}

	db, err := sql.Open(driverName, p.DSN)
	if err != nil {
		return nil, lerr.New(lerr.KindSqlConnect, fmt.Errorf("open %s: %w", p.Driver, err))
	}
	defer db.Close()

	args := make([]interface{}, len(p.Args))
	for i, a := range p.Args {
		switch a.Kind {
		case spec.LitInt:
			args[i] = a.I
		case spec.LitStr:
			args[i] = a.S
		case spec.LitReal:
			args[i] = a.R
		}
	}

	rows, err := db.QueryContext(ctx, p.Query, args...)
	if err != nil {
		return nil, lerr.New(lerr.KindSqlQuery, fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, lerr.New(lerr.KindSqlQuery, err)
		}
		return nil, lerr.New(lerr.KindSqlNoRows, fmt.Errorf("query returned no rows"))
	}

	var value interface{}
	if err := rows.Scan(&value); err != nil {
		return nil, lerr.New(lerr.KindSqlQuery, fmt.Errorf("scan: %w", err))
	}

	if rows.Next() {
		return nil, lerr.New(lerr.KindSqlAmbiguous, fmt.Errorf("query returned more than one row"))
	}
	if err := rows.Err(); err != nil {
		return nil, lerr.New(lerr.KindSqlQuery, err)
	}

	return value, nil
}

func sqlScalarAsInt(ctx context.Context, p spec.SqlQueryParam) (int64, error) {
	v, err := sqlScalar(ctx, p)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		var i int64
		if _, scanErr := fmt.Sscanf(string(n), "%d", &i); scanErr == nil {
			return i, nil
		}
	}
	return 0, lerr.New(lerr.KindSqlTypeCoercion, fmt.Errorf("column value %v is not an integer", v))
}

func sqlScalarAsStr(ctx context.Context, p spec.SqlQueryParam) (string, error) {
	v, err := sqlScalar(ctx, p)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", s), nil
	}
}

func sqlScalarAsReal(ctx context.Context, p spec.SqlQueryParam) (float64, error) {
	v, err := sqlScalar(ctx, p)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case []byte:
		var f float64
		if _, scanErr := fmt.Sscanf(string(n), "%g", &f); scanErr == nil {
			return f, nil
		}
	}
	return 0, lerr.New(lerr.KindSqlTypeCoercion, fmt.Errorf("column value %v is not a real", v))
}

// sqlScalarResolved runs the query and wraps the raw column value as a Lit,
// inferring the Lit kind from the driver's native Go type rather than a
// caller-supplied expectation (used by the variable resolver, which has no
// separate "expected kind" input for SqlQuery the way VarRef does).
func sqlScalarResolved(ctx context.Context, p spec.SqlQueryParam) (spec.Lit, error) {
	v, err := sqlScalar(ctx, p)
	if err != nil {
		return spec.Lit{}, err
	}
	switch n := v.(type) {
	case int64:
		return spec.IntLit(n), nil
	case int32:
		return spec.IntLit(int64(n)), nil
	case float64:
		return spec.RealLit(n), nil
	case string:
		return spec.StrLit(n), nil
	case []byte:
		return spec.StrLit(string(n)), nil
	case nil:
		return spec.StrLit(""), nil
	default:
		return spec.StrLit(fmt.Sprintf("%v", n)), nil
	}
}
