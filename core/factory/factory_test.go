package factory

import (
	"reflect"
	"testing"
)

type sink struct{ Path string }

type sinkConf struct {
	Path string `json:"path"`
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sink]()
	if err := reg.Register("csv", func(conf map[string]any) (*sink, error) {
		var c sinkConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sink{Path: c.Path}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "csv", Conf: map[string]any{"path": "out.csv"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Path != "out.csv" {
		t.Fatalf("expected out.csv got %s", inst.Path)
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestRegistry_Types(t *testing.T) {
	reg := NewRegistry[int]()
	for _, name := range []string{"sqlite", "csv", "json"} {
		if err := reg.Register(name, func(map[string]any) (int, error) { return 0, nil }); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	want := []string{"csv", "json", "sqlite"}
	if got := reg.Types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
}
