package kb

import (
	"reflect"
	"testing"
)

func TestCoerceMap(t *testing.T) {
	t.Run("object passes through", func(t *testing.T) {
		in := map[string]any{"a": float64(1)}
		out := CoerceMap(in, nil)
		if !reflect.DeepEqual(out, in) {
			t.Errorf("expected %v, got %v", in, out)
		}
	})

	t.Run("JSON string is parsed", func(t *testing.T) {
		out := CoerceMap(`{"a": 1}`, nil)
		want := map[string]any{"a": float64(1)}
		if !reflect.DeepEqual(out, want) {
			t.Errorf("expected %v, got %v", want, out)
		}
	})

	t.Run("garbage string yields empty map", func(t *testing.T) {
		out := CoerceMap("not json", nil)
		if out == nil {
			t.Fatal("expected non-nil map")
		}
		if len(out) != 0 {
			t.Errorf("expected empty map, got %v", out)
		}
	})

	t.Run("JSON string of wrong type yields empty map", func(t *testing.T) {
		out := CoerceMap(`[1, 2, 3]`, nil)
		if len(out) != 0 {
			t.Errorf("expected empty map, got %v", out)
		}
	})

	t.Run("nil yields empty map", func(t *testing.T) {
		out := CoerceMap(nil, nil)
		if out == nil || len(out) != 0 {
			t.Errorf("expected empty map, got %v", out)
		}
	})

	t.Run("non-string scalar yields empty map", func(t *testing.T) {
		out := CoerceMap(float64(42), nil)
		if len(out) != 0 {
			t.Errorf("expected empty map, got %v", out)
		}
	})
}
