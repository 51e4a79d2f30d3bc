package cursor

import (
	"fmt"
	"testing"
	"time"

	perr "pestwatch/internal/platform/errors"
)

type rec struct {
	id string
	at time.Time
}

func recKey(r rec) Key { return Key{At: r.at, ID: r.id} }

func fixture(n int) []rec {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]rec, 0, n)
	for i := 0; i < n; i++ {
		// pairs share a timestamp to exercise the id tie-break
		out = append(out, rec{id: fmt.Sprintf("r%02d", i), at: base.Add(time.Duration(i/2) * time.Minute)})
	}
	return out
}

func TestPaginate_25By10(t *testing.T) {
	t.Parallel()

	data := fixture(25)
	var (
		sizes []int
		seen  = map[string]bool{}
		all   []rec
		after string
	)
	for i := 0; i < 10; i++ {
		p, err := Paginate(data, recKey, 10, after)
		if err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
		sizes = append(sizes, len(p.Items))
		for _, it := range p.Items {
			if seen[it.id] {
				t.Fatalf("duplicate %s", it.id)
			}
			seen[it.id] = true
		}
		all = append(all, p.Items...)
		if p.NextCursor == nil {
			break
		}
		after = *p.NextCursor
	}

	if fmt.Sprint(sizes) != "[10 10 5]" {
		t.Fatalf("page sizes = %v", sizes)
	}
	if len(all) != 25 {
		t.Fatalf("got %d records", len(all))
	}
	for i := 1; i < len(all); i++ {
		if !recKey(all[i-1]).Before(recKey(all[i])) {
			t.Fatalf("order broken at %d: %v then %v", i, all[i-1], all[i])
		}
	}
	if all[0].id != "r24" || all[1].id != "r23" {
		t.Fatalf("head = %s,%s", all[0].id, all[1].id)
	}
}

func TestPaginate_ExactMultipleEndsWithNull(t *testing.T) {
	t.Parallel()

	data := fixture(20)
	p1, _ := Paginate(data, recKey, 10, "")
	if p1.NextCursor == nil {
		t.Fatalf("first page should have a cursor")
	}
	p2, err := Paginate(data, recKey, 10, *p1.NextCursor)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(p2.Items) != 10 || p2.NextCursor != nil {
		t.Fatalf("second page len=%d next=%v", len(p2.Items), p2.NextCursor)
	}
}

func TestPaginate_Errors(t *testing.T) {
	t.Parallel()

	data := fixture(3)
	cases := []struct {
		name   string
		limit  int
		cursor string
		field  string
	}{
		{"zero limit", 0, "", "limit"},
		{"negative limit", -5, "", "limit"},
		{"unknown cursor", 10, "nope", "cursor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Paginate(data, recKey, tc.limit, tc.cursor)
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
			if e, ok := perr.As(err); !ok || e.Field() != tc.field {
				t.Fatalf("field = %v", err)
			}
		})
	}
}

func TestPaginate_EmptySet(t *testing.T) {
	t.Parallel()

	p, err := Paginate[rec](nil, recKey, 10, "")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if p.Items == nil || len(p.Items) != 0 || p.NextCursor != nil {
		t.Fatalf("page = %+v", p)
	}
}

func TestPaginate_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	data := fixture(5)
	first := data[0].id
	_, _ = Paginate(data, recKey, 2, "")
	if data[0].id != first {
		t.Fatalf("input reordered")
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	now := time.Now()
	a := Key{At: now, ID: "b"}
	b := Key{At: now, ID: "a"}
	c := Key{At: now.Add(-time.Second), ID: "z"}

	if Compare(a, b) != -1 || Compare(b, a) != 1 || Compare(a, a) != 0 {
		t.Fatalf("tie-break by id desc broken")
	}
	if Compare(b, c) != -1 {
		t.Fatalf("newer should sort first")
	}
}
