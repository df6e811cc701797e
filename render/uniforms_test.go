package render

import (
	"reflect"
	"sort"
	"testing"
)

func TestUniformNames(t *testing.T) {
	names := uniformNames(uniformsType)

	var got []string
	for _, name := range names {
		got = append(got, name)
	}
	sort.Strings(got)

	want := []string{"iterations", "palette", "pos", "size", "zoom"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("uniformNames() = %v, want %v", got, want)
	}

	for i, name := range names {
		if tag := uniformsType.Field(i).Tag.Get("uniform"); tag != name {
			t.Errorf("field %v maps to %q, tag is %q", i, name, tag)
		}
	}
}

func TestUniformNamesSkipsUntagged(t *testing.T) {
	type mixed struct {
		A float32 `uniform:"a"`
		B float32
	}
	names := uniformNames(reflect.TypeOf(mixed{}))
	if len(names) != 1 || names[0] != "a" {
		t.Errorf("uniformNames() = %v", names)
	}
}

func TestBindUniformsSkipsInactive(t *testing.T) {
	locations := map[string]int32{"pos": 0, "zoom": 1, "size": 2, "palette": 4}
	bound := bindUniforms(func(name string) int32 {
		if loc, ok := locations[name]; ok {
			return loc
		}
		return -1
	})

	if len(bound) != len(locations) {
		t.Fatalf("bound %v uniforms, want %v", len(bound), len(locations))
	}
	for _, b := range bound {
		if locations[b.name] != b.location {
			t.Errorf("%v bound at %v, want %v", b.name, b.location, locations[b.name])
		}
		if uniformsType.Field(b.field).Tag.Get("uniform") != b.name {
			t.Errorf("%v bound to field %v", b.name, b.field)
		}
	}
}
