package utils

import (
	"strings"
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"just now", now.Add(-20 * time.Second), "À l'instant"},
		{"future clamps to now", now.Add(time.Hour), "À l'instant"},
		{"one minute", now.Add(-time.Minute), "Il y a 1 minute"},
		{"minutes", now.Add(-45 * time.Minute), "Il y a 45 minutes"},
		{"one hour", now.Add(-90 * time.Minute), "Il y a 1 heure"},
		{"hours", now.Add(-5 * time.Hour), "Il y a 5 heures"},
		{"yesterday", now.Add(-30 * time.Hour), "Hier"},
		{"days", now.AddDate(0, 0, -3), "Il y a 3 jours"},
		{"one week", now.AddDate(0, 0, -8), "Il y a 1 semaine"},
		{"weeks", now.AddDate(0, 0, -20), "Il y a 2 semaines"},
		{"old date", time.Date(2023, 12, 25, 9, 0, 0, 0, time.UTC), "25/12/2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeAgo(tt.t, now); got != tt.want {
				t.Errorf("TimeAgo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMemberSince(t *testing.T) {
	got := MemberSince(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	if got != "janvier 2024" {
		t.Errorf("MemberSince() = %q", got)
	}
	if MemberSince(time.Time{}) != "" {
		t.Error("zero time should render empty")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache(4)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("stats", 42, time.Minute)
	if v := c.Get("stats"); v != 42 {
		t.Fatalf("Get() = %v, want 42", v)
	}

	now = now.Add(2 * time.Minute)
	if v := c.Get("stats"); v != nil {
		t.Errorf("expired entry returned %v", v)
	}

	c.Set("off", 1, 0)
	if v := c.Get("off"); v != nil {
		t.Errorf("zero ttl should not cache, got %v", v)
	}
}

func TestRenderMarkdownSanitises(t *testing.T) {
	out := string(RenderMarkdown("**bold** <script>alert(1)</script>\n\n![img](https://example.com/a.png)"))

	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script survived sanitising: %s", out)
	}
	if !strings.Contains(out, `loading="lazy"`) {
		t.Errorf("image not enhanced: %s", out)
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("42"); !ok || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, ok)
	}
	for _, s := range []string{"", "abc", "0", "-1"} {
		if _, ok := ParseID(s); ok {
			t.Errorf("ParseID(%q) should fail", s)
		}
	}
}
