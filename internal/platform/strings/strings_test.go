package strings

import (
	"testing"

	"pestwatch/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"GET", "POST"}
	if got := IfEmpty(nil, def); len(got) != 2 {
		t.Fatalf("nil -> %v", got)
	}
	if got := IfEmpty([]string{"PATCH"}, def); len(got) != 1 || got[0] != "PATCH" {
		t.Fatalf("set -> %v", got)
	}
}

func TestCoalesce(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"", "  "}, ""},
		{[]string{" reviewer-2 ", "gateway-user"}, "reviewer-2"},
		{[]string{"", "gateway-user"}, "gateway-user"},
	}
	for _, c := range cases {
		if got := Coalesce(c.in...); got != c.want {
			t.Errorf("Coalesce(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMustString(t *testing.T) {
	if MustString("pestwatch", "name") != "pestwatch" {
		t.Fatalf("value changed")
	}
	if r := testkit.MustPanic(t, func() { MustString("   ", "name") }); r != "name is required" {
		t.Fatalf("recover = %v", r)
	}
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"verifications":    "/verifications",
		"/analytics/":      "/analytics",
		"  //listings//  ": "/listings",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Errorf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}
