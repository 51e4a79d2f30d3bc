package testkit

import "testing"

func TestMustPanic_ReturnsValue(t *testing.T) {
	t.Parallel()

	if got := MustPanic(t, func() { panic("records.Store requires a non nil TxRunner") }); got != "records.Store requires a non nil TxRunner" {
		t.Fatalf("recovered = %v", got)
	}
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, `{"level":"warn","component":"analytics","status":"maybe"}`, `"component":"analytics"`, `"status":"maybe"`)
}
