package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("prediction_date", "games_data").
		From("daily_predictions").
		Where(Eq("prediction_date", "2026-08-28")).
		OrderBy("prediction_date DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT prediction_date, games_data FROM daily_predictions WHERE prediction_date = $1 ORDER BY prediction_date DESC LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "2026-08-28" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_WithConflictSuffix(t *testing.T) {
	query, args, err := InsertInto("profiles").
		Columns("id", "email").
		Values("u1", "u1@example.com").
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO profiles (id, email) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != "u1@example.com" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		Date  string `db:"prediction_date"`
		Games string `db:"games_data"`
		Skip  string `db:"-"`
	}

	query, args, err := InsertModel("daily_predictions", row{Date: "2026-08-28", Games: "[]", Skip: "x"},
		"ON CONFLICT (prediction_date) DO UPDATE SET games_data = EXCLUDED.games_data")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO daily_predictions (prediction_date, games_data) VALUES ($1, $2) " +
		"ON CONFLICT (prediction_date) DO UPDATE SET games_data = EXCLUDED.games_data"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "2026-08-28" || args[1] != "[]" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("profiles").
		Set("subscription_status", "active").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE profiles SET subscription_status = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "active" || args[1] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
