package papertrade

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("simple object", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 1)
		w.Append("b", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":1,"b":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // assess that a zero value is actually added.
		w.Optional("b", "")
		w.Optional("c", 0)
		w.Optional("d", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":0,"d":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", func() {})
		if _, err := w.MarshalJSON(); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestSnapshot_MarshalJSON(t *testing.T) {
	s := Snapshot{
		AccountID: 1,
		Username:  "alice",
		Cash:      USD(500),
		Positions: []Position{
			{Symbol: "AAPL", Name: "Apple Inc.", Shares: 10, Price: USD(55), Value: USD(550)},
			{Symbol: "GONE", Shares: 1, Err: errors.New("symbol not found")},
		},
		Total: USD(1050),
	}
	got, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	want := `{"account":1,"username":"alice","cash":{"currency":"USD","amount":"500.00"},"positions":[` +
		`{"symbol":"AAPL","name":"Apple Inc.","shares":10,"price":{"currency":"USD","amount":"55.00"},"value":{"currency":"USD","amount":"550.00"}},` +
		`{"symbol":"GONE","shares":1,"error":"symbol not found"}],` +
		`"total":{"currency":"USD","amount":"1050.00"},"degraded":true}`
	if string(got) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}
