package mastodon

import (
	"errors"
	"testing"
)

func TestNextMaxID(t *testing.T) {
	cases := []struct {
		name string
		link string
		want string
	}{
		{
			name: "next and prev",
			link: `<https://host/api/v1/accounts/1/following?limit=80&max_id=123>; rel="next", <https://host/api/v1/accounts/1/following?since_id=456>; rel="prev"`,
			want: "123",
		},
		{
			name: "prev only",
			link: `<https://host/api/v1/accounts/1/following?since_id=456>; rel="prev"`,
			want: "",
		},
		{
			name: "absent header",
			link: "",
			want: "",
		},
		{
			name: "next without max_id",
			link: `<https://host/api/v1/accounts/1/following>; rel="next"`,
			want: "",
		},
	}

	for _, tc := range cases {
		if got := nextMaxID(tc.link); got != tc.want {
			t.Fatalf("%s: nextMaxID=%q want=%q", tc.name, got, tc.want)
		}
	}
}

func TestDrainConcatenatesAllPages(t *testing.T) {
	pages := []struct {
		items []string
		next  string
	}{
		{items: []string{"a", "b"}, next: "2"},
		{items: []string{"c"}, next: "3"},
		{items: []string{"d"}, next: ""},
	}

	var gotCursors []string
	calls := 0

	res, err := Drain(func(maxID string) ([]string, string, error) {
		gotCursors = append(gotCursors, maxID)
		p := pages[calls]
		calls++
		return p.items, p.next, nil
	})
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if calls != 3 {
		t.Fatalf("expected 3 fetches, got %d", calls)
	}

	wantCursors := []string{"", "2", "3"}
	for i, c := range wantCursors {
		if gotCursors[i] != c {
			t.Fatalf("fetch %d got cursor %q want %q", i, gotCursors[i], c)
		}
	}

	want := []string{"a", "b", "c", "d"}
	if len(res) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(res))
	}
	for i, v := range want {
		if res[i] != v {
			t.Fatalf("item %d = %q want %q", i, res[i], v)
		}
	}
}

func TestDrainStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	_, err := Drain(func(maxID string) ([]int, string, error) {
		calls++
		if calls == 2 {
			return nil, "", boom
		}
		return []int{1}, "next", nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 fetches, got %d", calls)
	}
}
