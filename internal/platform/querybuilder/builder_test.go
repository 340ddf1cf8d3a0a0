package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	t.Run("where order and limit", func(t *testing.T) {
		t.Parallel()
		sql, args, err := Select("*").
			From("seasons").
			Where(Eq("league_public_id", "lg-1"), IsNull("deleted_at")).
			OrderBy("year DESC", "id DESC").
			Limit(1).
			ToSQL()
		if err != nil {
			t.Fatalf("to sql: %v", err)
		}
		want := "SELECT * FROM seasons WHERE league_public_id = $1 AND deleted_at IS NULL ORDER BY year DESC, id DESC LIMIT 1"
		if sql != want {
			t.Fatalf("sql:\n got=%q\nwant=%q", sql, want)
		}
		if !reflect.DeepEqual(args, []any{"lg-1"}) {
			t.Fatalf("args: got=%v", args)
		}
	})

	t.Run("in condition numbers placeholders", func(t *testing.T) {
		t.Parallel()
		sql, args, err := Select("id").
			From("teams").
			Where(Eq("league_public_id", "lg-1"), In("public_id", []any{"t-1", "t-2"})).
			ToSQL()
		if err != nil {
			t.Fatalf("to sql: %v", err)
		}
		want := "SELECT id FROM teams WHERE league_public_id = $1 AND public_id IN ($2, $3)"
		if sql != want {
			t.Fatalf("sql: got=%q want=%q", sql, want)
		}
		if len(args) != 3 {
			t.Fatalf("args: got=%v", args)
		}
	})

	t.Run("empty in never matches", func(t *testing.T) {
		t.Parallel()
		sql, _, err := Select("id").From("teams").Where(In("public_id", nil)).ToSQL()
		if err != nil {
			t.Fatalf("to sql: %v", err)
		}
		if sql != "SELECT id FROM teams WHERE 1=0" {
			t.Fatalf("sql: got=%q", sql)
		}
	})

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()
		if _, _, err := Select("id").ToSQL(); err == nil {
			t.Fatal("expected error for missing table")
		}
	})
}

func TestInsertBuilder(t *testing.T) {
	t.Parallel()

	sql, args, err := InsertInto("data_sources").
		Columns("name").
		Values("ESPN").
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	want := "INSERT INTO data_sources (name) VALUES ($1) ON CONFLICT (name) DO NOTHING"
	if sql != want {
		t.Fatalf("sql: got=%q want=%q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"ESPN"}) {
		t.Fatalf("args: got=%v", args)
	}

	if _, _, err := InsertInto("t").Columns("a", "b").Values("only-one").ToSQL(); err == nil {
		t.Fatal("expected error for column/value count mismatch")
	}
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	sql, args, err := Update("seasons").
		Set("name", "2024 Season").
		SetExpr("updated_at", "now()").
		Where(Eq("public_id", "ssn-1"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	want := "UPDATE seasons SET name = $1, updated_at = now() WHERE public_id = $2 AND deleted_at IS NULL"
	if sql != want {
		t.Fatalf("sql: got=%q want=%q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"2024 Season", "ssn-1"}) {
		t.Fatalf("args: got=%v", args)
	}
}

func TestExprRewritesPlaceholders(t *testing.T) {
	t.Parallel()

	sql, args, err := Update("phases").
		Set("label", "Week 1").
		Where(Expr("starts_at < ? AND ends_at > ?", "a", "b")).
		ToSQL()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	want := "UPDATE phases SET label = $1 WHERE starts_at < $2 AND ends_at > $3"
	if sql != want {
		t.Fatalf("sql: got=%q want=%q", sql, want)
	}
	if len(args) != 3 {
		t.Fatalf("args: got=%v", args)
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		PublicID string `db:"public_id"`
		Name     string `db:"name"`
		Skipped  string `db:"-"`
		NoTag    string
	}

	sql, args, err := InsertModel("leagues", row{PublicID: "lg-1", Name: "NFL", Skipped: "x", NoTag: "y"}, "")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	want := "INSERT INTO leagues (public_id, name) VALUES ($1, $2)"
	if sql != want {
		t.Fatalf("sql: got=%q want=%q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"lg-1", "NFL"}) {
		t.Fatalf("args: got=%v", args)
	}

	if _, _, err := InsertModel("leagues", nil, ""); err == nil {
		t.Fatal("expected error for nil model")
	}
}
