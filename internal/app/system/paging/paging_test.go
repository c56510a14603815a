package paging

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{"absent uses default", "", InboxPageSize},
		{"explicit value", "limit=5", 5},
		{"clamped to max", "limit=500", MaxInboxPageSize},
		{"zero uses default", "limit=0", InboxPageSize},
		{"negative uses default", "limit=-3", InboxPageSize},
		{"garbage uses default", "limit=abc", InboxPageSize},
		{"max itself allowed", "limit=100", MaxInboxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/notifications?"+tt.query, nil)
			if got := ParseLimit(r); got != tt.want {
				t.Errorf("ParseLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseBefore(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/notifications", nil)
		before, ok := ParseBefore(r)
		if !ok {
			t.Error("expected ok=true when before is absent")
		}
		if before != nil {
			t.Errorf("expected nil before, got %v", before)
		}
	})

	t.Run("valid RFC3339", func(t *testing.T) {
		stamp := "2026-03-01T12:00:00Z"
		r := httptest.NewRequest("GET", "/notifications?before="+stamp, nil)
		before, ok := ParseBefore(r)
		if !ok {
			t.Fatal("expected ok=true for valid timestamp")
		}
		if before == nil {
			t.Fatal("expected non-nil before")
		}
		want, _ := time.Parse(time.RFC3339, stamp)
		if !before.Equal(want) {
			t.Errorf("before = %v, want %v", before, want)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/notifications?before=yesterday", nil)
		_, ok := ParseBefore(r)
		if ok {
			t.Error("expected ok=false for malformed timestamp")
		}
	})
}

func TestConfigureKeyset(t *testing.T) {
	t.Run("no cursors", func(t *testing.T) {
		cfg := ConfigureKeyset("", "")
		if cfg.Direction != Forward || cfg.SortOrder != 1 {
			t.Errorf("got direction=%v sort=%d, want forward ascending", cfg.Direction, cfg.SortOrder)
		}
		if cfg.Cursor != nil {
			t.Error("expected nil cursor")
		}
		if cfg.KeysetWindow("full_name_ci") != nil {
			t.Error("expected nil window without a cursor")
		}
	})

	t.Run("before wins over after", func(t *testing.T) {
		cfg := ConfigureKeyset("some-cursor", "other-cursor")
		if cfg.Direction != Backward || cfg.SortOrder != -1 {
			t.Errorf("got direction=%v sort=%d, want backward descending", cfg.Direction, cfg.SortOrder)
		}
	})

	t.Run("garbage cursor ignored", func(t *testing.T) {
		cfg := ConfigureKeyset("", "!!not-base64!!")
		if cfg.Cursor != nil {
			t.Error("expected malformed cursor to be dropped")
		}
	})
}

func TestTrimPage(t *testing.T) {
	full := func() []int { return make([]int, DirectoryPageSize+1) }

	t.Run("first page with extra", func(t *testing.T) {
		rows := full()
		res := TrimPage(&rows, "", "")
		if len(rows) != DirectoryPageSize {
			t.Errorf("len = %d, want %d", len(rows), DirectoryPageSize)
		}
		if res.HasPrev || !res.HasNext {
			t.Errorf("got %+v, want HasPrev=false HasNext=true", res)
		}
	})

	t.Run("first page short", func(t *testing.T) {
		rows := []int{1, 2}
		res := TrimPage(&rows, "", "")
		if res.HasPrev || res.HasNext {
			t.Errorf("got %+v, want no neighbors", res)
		}
	})

	t.Run("forward page without extra", func(t *testing.T) {
		rows := []int{1, 2}
		res := TrimPage(&rows, "", "cur")
		if !res.HasPrev || res.HasNext {
			t.Errorf("got %+v, want HasPrev=true HasNext=false", res)
		}
	})

	t.Run("backward page with extra trims front", func(t *testing.T) {
		rows := full()
		rows[0] = 99
		res := TrimPage(&rows, "cur", "")
		if len(rows) != DirectoryPageSize {
			t.Errorf("len = %d, want %d", len(rows), DirectoryPageSize)
		}
		if rows[0] == 99 {
			t.Error("extra row should be trimmed from the front when paging backwards")
		}
		if !res.HasPrev || !res.HasNext {
			t.Errorf("got %+v, want both neighbors", res)
		}
	})
}

func TestReverse(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	Reverse(rows)
	want := []int{4, 3, 2, 1}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows = %v, want %v", rows, want)
		}
	}
}

func TestTrimMore(t *testing.T) {
	t.Run("extra row trimmed", func(t *testing.T) {
		rows := []int{1, 2, 3, 4}
		more := TrimMore(&rows, 3)
		if !more {
			t.Error("expected more=true when extra row present")
		}
		if len(rows) != 3 {
			t.Errorf("len(rows) = %d, want 3", len(rows))
		}
	})

	t.Run("exact page", func(t *testing.T) {
		rows := []int{1, 2, 3}
		more := TrimMore(&rows, 3)
		if more {
			t.Error("expected more=false for exact page")
		}
		if len(rows) != 3 {
			t.Errorf("len(rows) = %d, want 3", len(rows))
		}
	})

	t.Run("short page", func(t *testing.T) {
		rows := []int{1}
		more := TrimMore(&rows, 3)
		if more {
			t.Error("expected more=false for short page")
		}
	})

	t.Run("empty", func(t *testing.T) {
		rows := []int{}
		more := TrimMore(&rows, 3)
		if more {
			t.Error("expected more=false for empty slice")
		}
	})
}
