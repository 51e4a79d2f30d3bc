package raw

import "testing"

func TestGetters(t *testing.T) {
	c := New().Prefix("LOG_")
	t.Setenv("LOG_LEVEL", "  info ")
	t.Setenv("LOG_CALLER", "YES")
	t.Setenv("LOG_COLOR", "off")
	t.Setenv("LOG_SAMPLE_EVERY", "10")
	t.Setenv("LOG_BAD_N", "-3")
	t.Setenv("LOG_WORD_N", "ten")

	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("Get default = %q", got)
	}
	if !c.GetBool("CALLER", false) || c.GetBool("COLOR", true) || !c.GetBool("UNSET", true) {
		t.Fatal("GetBool")
	}
	if c.GetInt("SAMPLE_EVERY", 0) != 10 || c.GetInt("BAD_N", 1) != 1 || c.GetInt("WORD_N", 2) != 2 || c.GetInt("UNSET", 3) != 3 {
		t.Fatal("GetInt")
	}
}
